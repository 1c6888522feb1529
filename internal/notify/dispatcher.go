package notify

import (
	"fmt"
	"log"
	"strings"

	"civicgo/backend/internal/models"
)

// Dispatcher розсилає сповіщення про життєвий цикл скарги.
// Контракт at-most-once: одна спроба, без повторів, помилки ковтаються.
type Dispatcher struct {
	Sender Sender
	// Опціональний операційний канал для адміністраторів
	Ops *TelegramAlerter
}

func NewDispatcher(sender Sender, ops *TelegramAlerter) *Dispatcher {
	return &Dispatcher{Sender: sender, Ops: ops}
}

// ComplaintSubmitted — лист заявнику після створення скарги
// плюс опціональний алерт операторам.
func (d *Dispatcher) ComplaintSubmitted(c *models.Complaint) {
	subject := fmt.Sprintf("Complaint Submitted Successfully - #%d", c.ID)
	if err := d.Sender.Send(c.User.Email, subject, buildSubmittedBody(c)); err != nil {
		log.Printf("ERROR: Failed to send email notification: %v", err)
	}

	if d.Ops != nil {
		d.Ops.Alert(fmt.Sprintf("Нова скарга #%d [%s] %s — %s", c.ID, c.Type, c.Title, c.City))
	}
}

// StatusChanged — лист заявнику про зміну статусу.
func (d *Dispatcher) StatusChanged(c *models.Complaint, oldStatus, newStatus models.ComplaintStatus) {
	subject := fmt.Sprintf("Complaint Status Updated - #%d", c.ID)
	if err := d.Sender.Send(c.User.Email, subject, buildStatusChangedBody(c, oldStatus, newStatus)); err != nil {
		log.Printf("ERROR: Failed to send status update email: %v", err)
	}
}

// ResolutionConfirmationRequested — прохання підтвердити вирішення.
// Адресується заявнику, не адміністратору.
func (d *Dispatcher) ResolutionConfirmationRequested(c *models.Complaint) {
	subject := fmt.Sprintf("Resolution Confirmation Required - #%d", c.ID)
	if err := d.Sender.Send(c.User.Email, subject, buildResolutionBody(c)); err != nil {
		log.Printf("ERROR: Failed to send resolution confirmation email: %v", err)
	}
}

func buildSubmittedBody(c *models.Complaint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", c.User.Name)
	b.WriteString("Thank you for submitting your complaint. We have received your report and it has been assigned the following details:\n\n")
	fmt.Fprintf(&b, "Complaint ID: #%d\n", c.ID)
	fmt.Fprintf(&b, "Title: %s\n", c.Title)
	fmt.Fprintf(&b, "Type: %s\n", c.Type)
	fmt.Fprintf(&b, "Status: %s\n", c.Status)
	fmt.Fprintf(&b, "Submitted: %s\n\n", c.CreatedAt.Format("2006-01-02 15:04"))

	if c.Address != "" {
		b.WriteString("Location: " + c.Address)
		if c.City != "" {
			b.WriteString(", " + c.City)
		}
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Description:\n%s\n\n", c.Description)
	b.WriteString("We will review your complaint and update you on its progress. You can track the status of your complaint by logging into your account.\n\n")
	b.WriteString("Thank you for helping us improve our community.\n\n")
	b.WriteString("Best regards,\nCivic Issue Management Team")
	return b.String()
}

func buildStatusChangedBody(c *models.Complaint, oldStatus, newStatus models.ComplaintStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", c.User.Name)
	fmt.Fprintf(&b, "We have an update regarding your complaint #%d.\n\n", c.ID)
	fmt.Fprintf(&b, "Status has been updated from %s to %s.\n\n", oldStatus, newStatus)

	if c.AdminNotes != "" {
		fmt.Fprintf(&b, "Admin Notes:\n%s\n\n", c.AdminNotes)
	}

	b.WriteString("Complaint Details:\n")
	fmt.Fprintf(&b, "Title: %s\n", c.Title)
	fmt.Fprintf(&b, "Type: %s\n", c.Type)
	fmt.Fprintf(&b, "Current Status: %s\n\n", newStatus)

	switch newStatus {
	case models.StatusResolved:
		b.WriteString("Your complaint has been marked as resolved. If you are satisfied with the resolution, no further action is required. If you have any concerns, please contact us.\n\n")
	case models.StatusInProgress:
		b.WriteString("We are currently working on resolving your complaint. We will keep you updated on the progress.\n\n")
	}

	b.WriteString("You can view the full details and track progress by logging into your account.\n\n")
	b.WriteString("Thank you for your patience.\n\n")
	b.WriteString("Best regards,\nCivic Issue Management Team")
	return b.String()
}

func buildResolutionBody(c *models.Complaint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", c.User.Name)
	fmt.Fprintf(&b, "We believe your complaint #%d has been resolved.\n\n", c.ID)
	b.WriteString("Complaint Details:\n")
	fmt.Fprintf(&b, "Title: %s\n", c.Title)
	fmt.Fprintf(&b, "Type: %s\n", c.Type)
	fmt.Fprintf(&b, "Location: %s\n\n", c.Address)

	if c.AdminNotes != "" {
		fmt.Fprintf(&b, "Resolution Details:\n%s\n\n", c.AdminNotes)
	}

	b.WriteString("Please confirm if the issue has been resolved to your satisfaction by logging into your account and updating the status.\n\n")
	b.WriteString("If you confirm the resolution, your complaint will be marked as completed. If you have any concerns or the issue persists, please let us know.\n\n")
	b.WriteString("Thank you for helping us maintain our community standards.\n\n")
	b.WriteString("Best regards,\nCivic Issue Management Team")
	return b.String()
}
