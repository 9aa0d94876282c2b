package funnel

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"dentalsites_backend/internal/model"
	"dentalsites_backend/internal/repository"
)

// Identity são os campos mínimos que autorizam a captura parcial.
type Identity struct {
	Name  string
	Email string
	Phone string
}

// Workflow implementa captura parcial e conversão. O marcador de sessão é a
// única deduplicação: perdê-lo gera um segundo registro, nunca perda de dados.
type Workflow struct {
	Leads repository.LeadRepository
	Now   func() time.Time
}

func NewWorkflow(leads repository.LeadRepository) *Workflow {
	return &Workflow{Leads: leads, Now: time.Now}
}

// CaptureIfAbsent cria um lead parcial assim que a identidade valida, uma
// única vez por sessão. Com marcador válido é no-op idempotente. O marcador
// só é devolvido depois do insert confirmado.
func (w *Workflow) CaptureIfAbsent(marker string, id Identity) (string, error) {
	if marker != "" {
		if _, err := w.Leads.SelectByToken(marker); err == nil {
			return marker, nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		// marcador órfão: segue para criar um novo registro
	}

	token := uuid.NewString()
	snapshot, err := json.Marshal(map[string]any{
		"nome":         id.Name,
		"email":        id.Email,
		"whatsapp":     id.Phone,
		"capturado_em": w.Now().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}

	lead := &model.Lead{
		Name:         id.Name,
		Email:        id.Email,
		Phone:        id.Phone,
		Status:       model.StatusLeadParcial,
		SessionToken: token,
		Briefing:     snapshot,
	}
	if err := w.Leads.Insert(lead); err != nil {
		return "", err
	}
	return token, nil
}

// Promote converte o lead parcial da sessão em registro completo: sobrescreve
// contato, troca o briefing pelo documento final, marca origem e passa o
// status para novo com linha de histórico. Se o marcador não resolver mais
// (storage limpo, registro removido por engano), cai no caminho direto — caso
// de borda aceito.
func (w *Workflow) Promote(marker string, briefing map[string]any) (*model.Lead, error) {
	lead, err := w.Leads.SelectByToken(marker)
	if errors.Is(err, repository.ErrNotFound) {
		return w.CreateDirect(briefing)
	}
	if err != nil {
		return nil, err
	}

	// reenvio da mesma sessão: o lead já converteu, nada a fazer
	if lead.Status != model.StatusLeadParcial {
		return lead, nil
	}

	doc, err := json.Marshal(briefing)
	if err != nil {
		return nil, err
	}

	old := lead.Status
	applyIdentity(lead, briefing)
	lead.Briefing = doc
	lead.Origem = model.OrigemConvertidoDeLead
	lead.SiteSlug = siteSlug(briefing, lead.Name)
	lead.Status = model.StatusNovo

	if err := w.Leads.ApplyTransition(lead, old, "visitante"); err != nil {
		return nil, err
	}
	return lead, nil
}

// CreateDirect cria o lead completo direto em novo, para sessões sem
// marcador.
func (w *Workflow) CreateDirect(briefing map[string]any) (*model.Lead, error) {
	doc, err := json.Marshal(briefing)
	if err != nil {
		return nil, err
	}

	lead := &model.Lead{
		Status:   model.StatusNovo,
		Origem:   model.OrigemFormularioDireto,
		Briefing: doc,
	}
	applyIdentity(lead, briefing)
	lead.SiteSlug = siteSlug(briefing, lead.Name)

	if err := w.Leads.Insert(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func applyIdentity(lead *model.Lead, briefing map[string]any) {
	if v, ok := briefing["nome"].(string); ok && v != "" {
		lead.Name = v
	}
	if v, ok := briefing["email"].(string); ok && v != "" {
		lead.Email = v
	}
	if v, ok := briefing["whatsapp"].(string); ok && v != "" {
		lead.Phone = v
	}
}

func siteSlug(briefing map[string]any, fallback string) string {
	if v, ok := briefing["nome_clinica"].(string); ok && v != "" {
		return slug.Make(v)
	}
	return slug.Make(fallback)
}
