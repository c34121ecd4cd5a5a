package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitContact(t *testing.T) {
	env := setup(t)

	rec := serve(SubmitContact, jsonRequest(t, http.MethodPost, "/api/contact",
		map[string]string{"name": "Sam", "email": "sam@example.com", "message": "hi"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["errors"], "message")

	env.mock.ExpectExec("INSERT INTO contact_us").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Sam", "sam@example.com", "We need a new storefront", "192.0.2.1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := jsonRequest(t, http.MethodPost, "/api/contact",
		map[string]string{"name": " Sam ", "email": "sam@example.com", "message": "We need a new storefront"})
	rec = serve(SubmitContact, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NoError(t, env.mock.ExpectationsWereMet())

	require.Eventually(t, func() bool { return len(env.mailer.Sent()) == 1 }, time.Second, 10*time.Millisecond)
	email := env.mailer.Sent()[0]
	assert.Equal(t, "New contact form submission from Sam", email.Subject)
	assert.Contains(t, email.TextContent, "We need a new storefront")
}

func TestDeleteContactValidatesID(t *testing.T) {
	env := setup(t)

	rec := serve(DeleteContact, jsonRequest(t, http.MethodDelete, "/api/admin/contacts?id=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.mock.ExpectExec("DELETE FROM contact_us").WillReturnResult(sqlmock.NewResult(0, 0))
	rec = serve(DeleteContact, jsonRequest(t, http.MethodDelete,
		"/api/admin/contacts?id=7d4e2f0c-3b1a-4c2d-9e8f-0a1b2c3d4e5f", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
