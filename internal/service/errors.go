package service

import "net/http"

// Error carries the HTTP status the boundary should answer with plus a
// human-readable detail. Handlers unwrap it with errors.As; anything else
// surfaces as a 500.
type Error struct {
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(detail string) error {
	return &Error{Status: http.StatusBadRequest, Detail: detail}
}

func NotFound(detail string) error {
	return &Error{Status: http.StatusNotFound, Detail: detail}
}

func Unauthenticated(detail string) error {
	return &Error{Status: http.StatusUnauthorized, Detail: detail}
}

func Forbidden(detail string) error {
	return &Error{Status: http.StatusForbidden, Detail: detail}
}

func InvalidCode() error {
	return &Error{Status: http.StatusBadRequest, Detail: "Código inválido o expirado."}
}

func EmptyCart() error {
	return &Error{Status: http.StatusBadRequest, Detail: "El carrito está vacío."}
}

func InsufficientStock(productName string) error {
	detail := "Stock insuficiente."
	if productName != "" {
		detail = "Stock insuficiente para " + productName
	}
	return &Error{Status: http.StatusBadRequest, Detail: detail}
}

func MailFailure(err error) error {
	return &Error{Status: http.StatusInternalServerError, Detail: "No se pudo enviar el correo: " + err.Error(), Err: err}
}

func Internal(err error) error {
	return &Error{Status: http.StatusInternalServerError, Detail: "Error interno.", Err: err}
}
