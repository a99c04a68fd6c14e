package catalog

import (
	"context"
	"sort"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
)

// Repository статический каталог услуг (read-only, не меняется во время работы)
type Repository struct {
	services map[int64]domain.Service
}

// NewRepository создает каталог из переданных услуг
func NewRepository(services []domain.Service) *Repository {
	r := &Repository{services: make(map[int64]domain.Service, len(services))}
	for _, s := range services {
		r.services[s.ID] = s.Clone()
	}
	return r
}

// NewDefaultRepository создает каталог с услугами по умолчанию
func NewDefaultRepository() *Repository {
	return NewRepository(DefaultServices())
}

// GetByID возвращает услугу по ID
func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	c := s.Clone()
	return &c, nil
}

// List возвращает все услуги, отсортированные по ID
func (r *Repository) List(_ context.Context) ([]domain.Service, error) {
	out := make([]domain.Service, 0, len(r.services))
	for _, s := range r.services {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DefaultServices каталог AutoBooker
func DefaultServices() []domain.Service {
	return []domain.Service{
		{
			ID:          1,
			Name:        "Consultation Premium IA",
			Duration:    "60 min",
			Price:       150,
			Description: "Consultation approfondie avec analyse IA personnalisée",
			Category:    domain.CategoryConsultation,
			Features:    []string{"Analyse IA", "Rapport détaillé", "Suivi 30 jours"},
			Preparation: "Préparez vos questions et objectifs",
			AutoConfirm: true,
		},
		{
			ID:          2,
			Name:        "Formation IA Complète",
			Duration:    "2h",
			Price:       300,
			Description: "Formation intensive sur les outils d'IA avec certification",
			Category:    domain.CategoryTraining,
			Features:    []string{"Certification", "Ressources exclusives", "Support continu"},
			Preparation: "Aucune préparation nécessaire",
			AutoConfirm: true,
		},
		{
			ID:          3,
			Name:        "Audit Processus + IA",
			Duration:    "90 min",
			Price:       250,
			Description: "Audit complet de vos processus avec recommandations IA",
			Category:    domain.CategoryAudit,
			Features:    []string{"Analyse approfondie", "Roadmap personnalisée", "ROI prévisionnel"},
			Preparation: "Préparez vos documents de processus",
			AutoConfirm: false,
		},
		{
			ID:          4,
			Name:        "Workshop Innovation",
			Duration:    "3h",
			Price:       450,
			Description: "Atelier collaboratif pour stimuler l'innovation",
			Category:    domain.CategoryWorkshop,
			AutoConfirm: false,
		},
	}
}
