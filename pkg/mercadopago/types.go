package mercadopago

import "fmt"

// APIError carrega status e corpo da resposta não-2xx, para o chamador
// decidir entre retry e caminho alternativo.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercadopago: api retornou status %d: %s", e.StatusCode, e.Body)
}

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
	UnitPrice  float64 `json:"unit_price"`
}

type preferencePayerPhone struct {
	AreaCode string `json:"area_code"`
	Number   string `json:"number"`
}

type preferencePayer struct {
	Name  string               `json:"name"`
	Email string               `json:"email"`
	Phone preferencePayerPhone `json:"phone"`
}

type preferenceBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferencePaymentMethods struct {
	Installments int `json:"installments"`
}

type createPreferenceRequest struct {
	Items             []preferenceItem         `json:"items"`
	Payer             preferencePayer          `json:"payer"`
	ExternalReference string                   `json:"external_reference"`
	PaymentMethods    preferencePaymentMethods `json:"payment_methods"`
	BackURLs          preferenceBackURLs       `json:"back_urls"`
	AutoReturn        string                   `json:"auto_return"`
	NotificationURL   string                   `json:"notification_url"`
}

type createPreferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// PaymentResponse é a resposta do GET /v1/payments/{id}.
type PaymentResponse struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	TransactionAmount float64 `json:"transaction_amount"`
	Installments      int     `json:"installments"`
	ExternalReference string  `json:"external_reference"`
}
