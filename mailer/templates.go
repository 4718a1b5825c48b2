package mailer

import (
	"fmt"
	"strings"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
)

// BuildOTPBody renders the verification code email.
func BuildOTPBody(purpose, code string) string {
	action := "finish creating your account"
	if purpose == models.OtpPurposeReset {
		action = "reset your password"
	}
	return fmt.Sprintf(`<html><body>
<p>Bonjour,</p>
<p>Use this code to %s:</p>
<h2 style="letter-spacing:4px">%s</h2>
<p>The code expires in 10 minutes. If you didn't request it, you can ignore this email.</p>
<p>— Le Cheese, Pondicherry</p>
</body></html>`, action, code)
}

// BuildOrderConfirmationBody renders the purchase summary email.
func BuildOrderConfirmationBody(order *models.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows, "<tr><td>%s (%s)</td><td>×%d</td><td>₹%.2f</td></tr>\n",
			item.Name, item.Variant, item.Quantity, item.UnitPrice)
	}
	return fmt.Sprintf(`<html><body>
<p>Bonjour %s,</p>
<p>Thank you for your order <b>%s</b>. Here is what's on its way to you:</p>
<table>%s</table>
<p>Subtotal: ₹%.2f<br>
Delivery: ₹%.2f<br>
Tax: ₹%.2f<br>
<b>Total: ₹%.2f</b></p>
<p>We'll email you again when it ships.</p>
<p>— Le Cheese, Pondicherry</p>
</body></html>`,
		order.ShippingAddress.Name, order.OrderID, rows.String(),
		order.Subtotal, order.DeliveryCharge, order.TaxAmount, order.TotalAmount)
}
