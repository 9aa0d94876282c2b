package payment

import (
	"os"

	"dentalsites_backend/pkg/mercadopago"
)

// ActiveProvider resolve a implementação autorizada pela configuração.
// Mercado Pago é o padrão; stripe fica disponível como caminho alternativo.
func ActiveProvider() Provider {
	switch os.Getenv("PAYMENT_PROVIDER") {
	case "stripe":
		return NewStripeProvider(os.Getenv("STRIPE_SECRET_KEY"))
	default:
		return NewMercadoPagoProvider(
			mercadopago.NewClient(os.Getenv("MP_ACCESS_TOKEN"), os.Getenv("MP_BASE_URL")),
		)
	}
}
