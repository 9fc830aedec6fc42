package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Update enforces the same email format policy as create: a malformed
// address is rejected before anything is written.
func TestUpdateCustomerRejectsInvalidEmail(t *testing.T) {
	for _, email := range []string{"not-an-email", `"quoted"@example.com`} {
		t.Run(email, func(t *testing.T) {
			gdb, mock := newMockDB(t)
			mock.ExpectQuery(`SELECT \* FROM "customers"`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
					AddRow(1, "Ada", "ada@example.com"))

			cu := NewCustomerController(gdb, discardLogger())
			app := fiber.New()
			app.Put("/customers/:id", cu.UpdateCustomer)

			payload, err := json.Marshal(fiber.Map{"name": "Ada", "email": email})
			require.NoError(t, err)
			req := httptest.NewRequest(fiber.MethodPut, "/customers/1", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
