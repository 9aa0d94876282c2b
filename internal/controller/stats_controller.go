package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"dentalsites_backend/internal/model"
	"dentalsites_backend/pkg/database"
)

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetDashboardStats alimenta o painel: distribuição por status, conversão do
// funil parcial→completo e receita confirmada.
func GetDashboardStats(c *fiber.Ctx) error {
	db := database.GetDB()

	var byStatus []statusCount
	if err := db.Model(&model.Lead{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch stats",
		})
	}

	var totalLeads int64
	db.Model(&model.Lead{}).Count(&totalLeads)

	var partials int64
	db.Model(&model.Lead{}).Where("status = ?", model.StatusLeadParcial).Count(&partials)

	var converted int64
	db.Model(&model.Lead{}).Where("origem = ?", model.OrigemConvertidoDeLead).Count(&converted)

	// conversão = convertidos / (convertidos + parciais ainda parados)
	var conversionRate float64
	if converted+partials > 0 {
		conversionRate = float64(converted) / float64(converted+partials)
	}

	var revenue int64
	db.Model(&model.Payment{}).
		Where("status = ?", model.PaymentSucceeded).
		Select("coalesce(sum(valor), 0)").
		Scan(&revenue)

	monthStart := time.Now().AddDate(0, 0, -30)
	var leadsThisMonth int64
	db.Model(&model.Lead{}).Where("created_at >= ?", monthStart).Count(&leadsThisMonth)

	return c.JSON(fiber.Map{
		"total_leads":      totalLeads,
		"by_status":        byStatus,
		"partial_leads":    partials,
		"converted_leads":  converted,
		"conversion_rate":  conversionRate,
		"revenue_centavos": revenue,
		"leads_last_30d":   leadsThisMonth,
	})
}
