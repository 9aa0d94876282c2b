package mercadopago

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.mercadopago.com"

type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

func NewClient(accessToken, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

// CheckoutPreferenceInput é o pedido de preferência em centavos; a conversão
// para reais acontece aqui, na borda com a API.
type CheckoutPreferenceInput struct {
	Title             string
	AmountCents       int64
	PayerName         string
	PayerEmail        string
	PayerPhone        string // 11 dígitos, DDD na frente
	ExternalReference string
	MaxInstallments   int
	SuccessURL        string
	FailureURL        string
	PendingURL        string
	NotificationURL   string
}

// CheckoutPreference é o handle devolvido: id da preferência + URL de
// redirecionamento (produção e sandbox).
type CheckoutPreference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

// CreatePreference cria a preferência de checkout. Resposta não-2xx vira
// *APIError, nunca sucesso implícito.
func (c *Client) CreatePreference(input CheckoutPreferenceInput) (*CheckoutPreference, error) {
	areaCode, number := splitPhone(input.PayerPhone)

	payload := createPreferenceRequest{
		Items: []preferenceItem{{
			Title:      input.Title,
			Quantity:   1,
			CurrencyID: "BRL",
			UnitPrice:  float64(input.AmountCents) / 100,
		}},
		Payer: preferencePayer{
			Name:  input.PayerName,
			Email: input.PayerEmail,
			Phone: preferencePayerPhone{AreaCode: areaCode, Number: number},
		},
		ExternalReference: input.ExternalReference,
		PaymentMethods:    preferencePaymentMethods{Installments: input.MaxInstallments},
		BackURLs: preferenceBackURLs{
			Success: input.SuccessURL,
			Failure: input.FailureURL,
			Pending: input.PendingURL,
		},
		AutoReturn:      "approved",
		NotificationURL: input.NotificationURL,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar json da preferência: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/checkout/preferences", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro na conexão com mercado pago: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response createPreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("erro ao ler resposta do mercado pago: %w", err)
	}

	return &CheckoutPreference{
		ID:               response.ID,
		InitPoint:        response.InitPoint,
		SandboxInitPoint: response.SandboxInitPoint,
	}, nil
}

// GetPayment consulta o estado atual de um pagamento.
func (c *Client) GetPayment(paymentID string) (*PaymentResponse, error) {
	req, err := http.NewRequest("GET", c.baseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro na conexão com mercado pago: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response PaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("erro ao ler resposta do mercado pago: %w", err)
	}
	return &response, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
}

// splitPhone separa DDD e número de um telefone de 11 dígitos.
func splitPhone(phone string) (string, string) {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	if len(digits) < 3 {
		return "", string(digits)
	}
	return string(digits[:2]), string(digits[2:])
}
