package payment

import "math"

// Installment é uma linha da tabela de parcelamento exibida ao cliente.
type Installment struct {
	N     int   `json:"n"`
	Valor int64 `json:"valor"` // centavos por parcela
	Total int64 `json:"total"` // centavos, Valor * N
}

// ComputeInstallments monta a tabela de 1..max parcelas. Para n > 1 o
// principal cresce composto à taxa mensal e cada parcela arredonda para cima
// no centavo; o total reportado é parcela × n. Para n = 1 não há custo de
// financiamento: total igual ao principal, exato. Função pura.
func ComputeInstallments(principal int64, max int, monthlyRate float64) []Installment {
	if max < 1 {
		max = 1
	}
	table := make([]Installment, 0, max)
	table = append(table, Installment{N: 1, Valor: principal, Total: principal})

	for n := 2; n <= max; n++ {
		grown := float64(principal) * math.Pow(1+monthlyRate, float64(n))
		per := int64(math.Ceil(grown / float64(n)))
		table = append(table, Installment{N: n, Valor: per, Total: per * int64(n)})
	}
	return table
}
