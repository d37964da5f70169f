package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"salesfeed/internal/domain"
	"salesfeed/internal/port"
)

type allyRepo struct {
	db *sqlx.DB
}

// NewAllyRepo creates a new PostgreSQL-backed AllyRepository.
func NewAllyRepo(db *sqlx.DB) port.AllyRepository {
	return &allyRepo{db: db}
}

func (r *allyRepo) List(ctx context.Context) ([]domain.Ally, error) {
	var allies []domain.Ally
	err := r.db.SelectContext(ctx, &allies,
		"SELECT * FROM allies ORDER BY normalized_name")
	if err != nil {
		return nil, fmt.Errorf("allyRepo.List: %w", err)
	}
	return allies, nil
}
