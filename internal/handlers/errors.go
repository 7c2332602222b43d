package handlers

import "strings"

// uniqueViolationField matches the storage layer's unique-constraint
// error message to the field that caused it, so the client gets a
// tailored conflict message. Covers the Postgres "duplicate key value
// violates unique constraint" and the sqlite "UNIQUE constraint failed"
// wordings.
func uniqueViolationField(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "duplicate key") && !strings.Contains(msg, "unique constraint") {
		return ""
	}
	for _, field := range []string{"username", "email", "phone", "user_num", "transaction_num"} {
		if strings.Contains(msg, field) {
			return field
		}
	}
	return ""
}
