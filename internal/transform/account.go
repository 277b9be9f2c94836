package transform

import (
	"fuel-dispatch-dashboard/internal/domain"
)

func User(raw []byte) domain.User {
	doc := unwrap(parse(raw), "user")
	return domain.User{
		ID:       str(doc.Get("id"), domain.NotAvailable),
		Username: str(doc.Get("username"), domain.NotAvailable),
		Email:    str(doc.Get("email"), domain.NotAvailable),
		FullName: str(doc.Get("full_name"), ""),
		Disabled: doc.Get("disabled").Bool(),
	}
}

// Token extracts the access token of a login response. AccessToken is empty
// when the backend sent none.
func Token(raw []byte) domain.Token {
	doc := parse(raw)
	return domain.Token{
		AccessToken: str(doc.Get("access_token"), ""),
		TokenType:   str(doc.Get("token_type"), "bearer"),
	}
}
