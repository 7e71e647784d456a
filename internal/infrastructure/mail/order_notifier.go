// Package mail envía avisos de pedidos nuevos por SMTP con gomail.
package mail

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/produksi-api/internal/application/ports"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

var _ ports.OrderNotifier = (*OrderNotifier)(nil)

// dialer subconjunto de *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// OrderNotifier envía un correo HTML al administrador por cada pedido nuevo.
type OrderNotifier struct {
	d    dialer
	from string
	to   []string
}

// NewOrderNotifier construye el notificador SMTP.
func NewOrderNotifier(host string, port int, username, password, from string, to []string) *OrderNotifier {
	return &OrderNotifier{
		d:    gomail.NewDialer(host, port, username, password),
		from: from,
		to:   to,
	}
}

// OrderPlaced arma y envía el aviso. El contexto se respeta solo antes de conectar.
func (n *OrderNotifier) OrderPlaced(ctx context.Context, order *entity.Order, customer *entity.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", n.to...)
	msg.SetHeader("Subject", "Pesanan baru "+order.Number)
	msg.SetBody("text/html", orderBody(order, customer))

	if err := n.d.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: enviar aviso de %s: %w", order.Number, err)
	}
	return nil
}

func orderBody(order *entity.Order, customer *entity.Customer) string {
	name := ""
	if customer != nil {
		name = customer.Name
	}
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h3>Pesanan baru %s</h3>", html.EscapeString(order.Number))
	fmt.Fprintf(&b, "<p>Pelanggan: <strong>%s</strong></p>", html.EscapeString(name))
	fmt.Fprintf(&b, "<p>Estado: %s</p>", html.EscapeString(order.Status))
	fmt.Fprintf(&b, "<p>Total: %s</p>", order.Total.StringFixed(0))
	if order.ShippingAddress != "" {
		fmt.Fprintf(&b, "<p>Dirección de envío: %s</p>", html.EscapeString(order.ShippingAddress))
	}
	fmt.Fprintf(&b, "<p>Líneas: %d</p>", len(order.Lines))
	b.WriteString("<p>Correo generado automáticamente, no responder.</p>")
	b.WriteString("</body></html>")
	return b.String()
}
