package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/sales?sslmode=disable": "pgx5://u:p@localhost:5432/sales?sslmode=disable",
		"postgresql://localhost/sales":                        "pgx5://localhost/sales",
		"pgx5://localhost/sales":                              "pgx5://localhost/sales",
	}
	for in, want := range cases {
		assert.Equal(t, want, MigrateURL(in), in)
	}
}
