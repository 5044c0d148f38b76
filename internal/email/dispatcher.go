package email

import (
	"sync"

	"github.com/devmartyn/go-auth-api/internal/logging"
)

// Message is a queued outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Dispatcher is an in-process outbox: handlers enqueue mail after their
// transaction commits and a worker goroutine delivers it. Delivery failures
// are logged, never propagated to the request that queued the message.
type Dispatcher struct {
	sender Sender
	logger *logging.Logger
	queue  chan Message

	closeOnce sync.Once
	done      chan struct{}
}

// NewDispatcher starts the delivery worker. bufferSize bounds the queue;
// enqueuing into a full queue drops the message with a warning rather than
// blocking the request path.
func NewDispatcher(sender Sender, logger *logging.Logger, bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 64
	}

	d := &Dispatcher{
		sender: sender,
		logger: logger,
		queue:  make(chan Message, bufferSize),
		done:   make(chan struct{}),
	}

	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for msg := range d.queue {
		if err := d.sender.Send(msg.To, msg.Subject, msg.Body); err != nil {
			d.logger.Warn("failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
			continue
		}
		d.logger.Info("email sent", "to", msg.To, "subject", msg.Subject)
	}
}

// Enqueue queues a message for delivery without blocking.
func (d *Dispatcher) Enqueue(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("email queue full, dropping message", "to", msg.To, "subject", msg.Subject)
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}

// EnqueueWelcome queues the post-registration welcome mail.
func (d *Dispatcher) EnqueueWelcome(toEmail, name string) {
	body, err := renderWelcome(name, toEmail)
	if err != nil {
		d.logger.Warn("failed to render welcome email", "error", err)
		return
	}
	d.Enqueue(Message{To: toEmail, Subject: "Welcome aboard", Body: body})
}

// EnqueueVerifyOtp queues the email verification code.
func (d *Dispatcher) EnqueueVerifyOtp(toEmail, code string) {
	body, err := renderOtp("Verify your email", "Use this code to verify your email address.", code)
	if err != nil {
		d.logger.Warn("failed to render verification email", "error", err)
		return
	}
	d.Enqueue(Message{To: toEmail, Subject: "Verify your email", Body: body})
}

// EnqueueResetOtp queues the password reset code.
func (d *Dispatcher) EnqueueResetOtp(toEmail, code string) {
	body, err := renderOtp("Password reset", "Use this code to reset your password.", code)
	if err != nil {
		d.logger.Warn("failed to render password reset email", "error", err)
		return
	}
	d.Enqueue(Message{To: toEmail, Subject: "Reset your password", Body: body})
}
