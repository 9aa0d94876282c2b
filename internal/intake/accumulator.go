package intake

import (
	"errors"
	"fmt"
	"strings"
)

// Seções do briefing, na ordem de navegação.
const (
	SectionIdentidade = iota
	SectionClinica
	SectionServicos
	SectionEquipe
	SectionRedesSociais
	SectionRevisao

	NumSections
)

var (
	// ErrSectionInvalid: avanço recusado porque a seção atual tem erros.
	ErrSectionInvalid = errors.New("seção atual contém erros de validação")

	// ErrEntryNotFound: índice fora da lista de um grupo repetível.
	ErrEntryNotFound = errors.New("entrada do grupo não encontrada")
)

// Form acumula as respostas do briefing em memória. É um valor por sessão,
// sem estado ambiente: o ponteiro de seção entra e sai junto com o Form.
// Nada aqui persiste; persistência é papel do funnel.
type Form struct {
	Section int               `json:"section"`
	Answers map[string]any    `json:"answers"`
	Errors  map[string]string `json:"errors"`

	// Marcador do lead parcial desta sessão, vazio enquanto a captura não
	// confirmou no backend.
	Marker string `json:"marker,omitempty"`
}

func NewForm() *Form {
	return &Form{
		Answers: make(map[string]any),
		Errors:  make(map[string]string),
	}
}

// SetField mescla um valor no conjunto de respostas e limpa o erro anterior
// do campo. Valores aninhados arbitrários são permitidos.
func (f *Form) SetField(key string, value any) {
	f.Answers[key] = value
	delete(f.Errors, key)
}

// Str devolve a resposta como string (vazia quando ausente ou de outro tipo).
func (f *Form) Str(key string) string {
	s, _ := f.Answers[key].(string)
	return s
}

// Bool devolve a resposta como booleano.
func (f *Form) Bool(key string) bool {
	b, _ := f.Answers[key].(bool)
	return b
}

// Advance valida a seção atual e só então move o ponteiro. Validação nunca
// "explode": erros voltam como dados no mapa do formulário.
func (f *Form) Advance() error {
	errs := f.ValidateSection(f.Section)
	if len(errs) > 0 {
		for k, v := range errs {
			f.Errors[k] = v
		}
		return ErrSectionInvalid
	}
	if f.Section < NumSections-1 {
		f.Section++
	}
	return nil
}

// Retreat volta uma seção sem validar nem descartar respostas.
func (f *Form) Retreat() {
	if f.Section > 0 {
		f.Section--
	}
}

// ValidateAll roda as regras de todas as seções (submissão final).
func (f *Form) ValidateAll() map[string]string {
	all := make(map[string]string)
	for i := 0; i < NumSections; i++ {
		for k, v := range f.ValidateSection(i) {
			all[k] = v
		}
	}
	return all
}

// ValidateSection roda só as regras da seção pedida e devolve campo→erro.
// Seções não visitadas nunca são validadas pelo fluxo de navegação.
func (f *Form) ValidateSection(section int) map[string]string {
	errs := make(map[string]string)

	switch section {
	case SectionIdentidade:
		if len(strings.TrimSpace(f.Str("nome"))) < 3 {
			errs["nome"] = "informe seu nome completo"
		}
		if !ValidEmail(f.Str("email")) {
			errs["email"] = "e-mail inválido"
		}
		if !ValidWhatsApp(f.Str("whatsapp")) {
			errs["whatsapp"] = "informe um celular com DDD (11 dígitos)"
		}

	case SectionClinica:
		if len(strings.TrimSpace(f.Str("nome_clinica"))) < 2 {
			errs["nome_clinica"] = "informe o nome da clínica"
		}
		if len(strings.TrimSpace(f.Str("endereco"))) < 10 {
			errs["endereco"] = "informe o endereço completo"
		}
		// link_maps só é exigido quando o visitante optou por exibir o mapa
		if f.Bool("mostrar_mapa") && !ValidLink(f.Str("link_maps")) {
			errs["link_maps"] = "informe o link de incorporação do Google Maps"
		}

	case SectionServicos:
		if len(f.GroupEntriesAny("servicos")) == 0 {
			errs["servicos"] = "selecione ao menos um serviço"
		}
		if len(strings.TrimSpace(f.Str("texto_sobre"))) < 20 {
			errs["texto_sobre"] = "conte um pouco mais sobre a clínica (mínimo 20 caracteres)"
		}

	case SectionEquipe:
		entries := f.GroupEntries("profissionais")
		if len(entries) == 0 {
			errs["profissionais"] = "inclua ao menos um profissional"
		}
		for i, entry := range entries {
			nome, _ := entry["nome"].(string)
			if len(strings.TrimSpace(nome)) < 3 {
				errs[groupKey("profissionais", i, "nome")] = "informe o nome do profissional"
			}
			cro, _ := entry["cro"].(string)
			if strings.TrimSpace(cro) == "" {
				errs[groupKey("profissionais", i, "cro")] = "informe o CRO"
			}
		}

	case SectionRedesSociais:
		for i, entry := range f.GroupEntries("redes_sociais") {
			url, _ := entry["url"].(string)
			if !ValidLink(url) {
				errs[groupKey("redes_sociais", i, "url")] = "link inválido"
			}
		}
		for i, entry := range f.GroupEntries("sites_referencia") {
			url, _ := entry["url"].(string)
			if !ValidLink(url) {
				errs[groupKey("sites_referencia", i, "url")] = "link inválido"
			}
		}

	case SectionRevisao:
		// revisão final não tem regras próprias
	}

	return errs
}

// GroupEntries lê um grupo repetível de sub-registros (equipe, links).
func (f *Form) GroupEntries(key string) []map[string]any {
	raw, ok := f.Answers[key].([]any)
	if !ok {
		// também aceita o tipo já materializado
		if typed, ok := f.Answers[key].([]map[string]any); ok {
			return typed
		}
		return nil
	}
	entries := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			entries = append(entries, m)
		}
	}
	return entries
}

// GroupEntriesAny lê listas simples (ex.: tags de serviço).
func (f *Form) GroupEntriesAny(key string) []any {
	raw, _ := f.Answers[key].([]any)
	return raw
}

// AddGroupEntry acrescenta um sub-registro ao grupo.
func (f *Form) AddGroupEntry(key string, entry map[string]any) {
	entries := f.GroupEntries(key)
	entries = append(entries, entry)
	f.Answers[key] = toAnySlice(entries)
	delete(f.Errors, key)
}

// UpdateGroupEntry substitui o sub-registro no índice dado e limpa os erros
// registrados para ele.
func (f *Form) UpdateGroupEntry(key string, index int, entry map[string]any) error {
	entries := f.GroupEntries(key)
	if index < 0 || index >= len(entries) {
		return ErrEntryNotFound
	}
	entries[index] = entry
	f.Answers[key] = toAnySlice(entries)
	f.dropEntryErrors(key, index, false)
	return nil
}

// RemoveGroupEntry descarta o sub-registro e qualquer erro de validação
// apontando para o índice antigo (os índices seguintes deslocam).
func (f *Form) RemoveGroupEntry(key string, index int) error {
	entries := f.GroupEntries(key)
	if index < 0 || index >= len(entries) {
		return ErrEntryNotFound
	}
	entries = append(entries[:index], entries[index+1:]...)
	f.Answers[key] = toAnySlice(entries)
	f.dropEntryErrors(key, index, true)
	return nil
}

// dropEntryErrors remove erros "key.N.campo". Com shifted, índices acima do
// removido também caem, porque apontariam para a entrada errada.
func (f *Form) dropEntryErrors(key string, index int, shifted bool) {
	prefix := key + "."
	for errKey := range f.Errors {
		if !strings.HasPrefix(errKey, prefix) {
			continue
		}
		rest := strings.TrimPrefix(errKey, prefix)
		dot := strings.Index(rest, ".")
		if dot < 0 {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(rest[:dot], "%d", &n); err != nil {
			continue
		}
		if n == index || (shifted && n > index) {
			delete(f.Errors, errKey)
		}
	}
}

func groupKey(key string, index int, field string) string {
	return fmt.Sprintf("%s.%d.%s", key, index, field)
}

func toAnySlice(entries []map[string]any) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out
}
