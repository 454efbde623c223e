package service

import "tienda-api/internal/notify"

// Notifier is what services need from the outbound mail path: acceptance
// onto a queue, not delivery.
type Notifier interface {
	Enqueue(m notify.Message) error
}
