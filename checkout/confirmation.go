package checkout

import (
	"bytes"
	"fmt"
	"html/template"

	"lakecity/models"
)

const ConfirmationSubject = "Order Confirmation - Lake City Fish"

var confirmationTmpl = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"money": models.Money,
	"line": func(it models.OrderItem) string {
		if it.Price == nil {
			return "Market price"
		}
		return models.Money(it.LineTotal)
	},
}).Parse(`<h2>Thank you for your order, {{.CustomerName}}!</h2>
<p>Your order has been received and will be ready for pickup on {{.PickupDate}}.</p>
<h3>Order Summary:</h3>
{{range .Items}}<p>{{.Quantity}}x {{.ProductName}} - {{line .}}</p>
{{end}}<p><strong>Order number:</strong> {{.OrderNumber}}</p>
<p><strong>Subtotal:</strong> {{money .Subtotal}}</p>
<p><strong>Tax:</strong> {{money .Tax}}</p>
<p><strong>Total:</strong> {{money .Total}}</p>
<p><strong>Payment Method:</strong> {{.PaymentMethod.Label}}</p>
<p>We'll see you at Soulard Market!</p>
<p>730 Carroll St, St. Louis, MO 63104<br>(314) 582-5011</p>
`))

// ConfirmationEmail renders the customer email for a stored order.
func ConfirmationEmail(order models.Order) (models.Email, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, order); err != nil {
		return models.Email{}, fmt.Errorf("render confirmation: %w", err)
	}
	return models.Email{
		To:      order.CustomerEmail,
		Subject: ConfirmationSubject,
		Body:    buf.String(),
	}, nil
}
