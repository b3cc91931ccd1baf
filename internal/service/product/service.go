package product

import (
	"context"

	"sushi-orders/internal/domain"
	productrepo "sushi-orders/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	id, err := domain.ParseID("product", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
