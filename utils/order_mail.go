package utils

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Govind-619/Storefront/models"
)

// SendOrderConfirmation mails the order summary to the customer
func (m *Mailer) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	if order.Customer.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Your %s order %s", StoreName, order.OrderCode)
	return m.SendEmail(ctx, order.Customer.Email, subject, OrderConfirmationBody(order))
}

// OrderConfirmationBody renders the HTML body of the confirmation mail
func OrderConfirmationBody(order *models.Order) string {
	var rows strings.Builder
	for _, it := range order.Items {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s</td></tr>",
			html.EscapeString(it.Name), it.Quantity, FormatMoney(it.LineTotal(), order.Currency))
	}

	discount := ""
	if order.Discount > 0 {
		discount = fmt.Sprintf("<p>Discount (%s): -%s</p>",
			html.EscapeString(order.CouponCode), FormatMoney(order.Discount, order.Currency))
	}

	return fmt.Sprintf(`
		<h2>Thank you, %s!</h2>
		<p>We received your order <strong>%s</strong>.</p>
		<table>%s</table>
		<p>Subtotal: %s</p>
		%s
		<p><strong>Total: %s</strong></p>
		<p>Delivery to: %s, %s, %s</p>
	`,
		html.EscapeString(order.Customer.FullName),
		order.OrderCode,
		rows.String(),
		FormatMoney(order.Subtotal, order.Currency),
		discount,
		FormatMoney(order.Total, order.Currency),
		html.EscapeString(order.Customer.Address),
		html.EscapeString(order.Customer.District),
		html.EscapeString(order.Customer.Province),
	)
}
