package services

import (
	"context"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/repository/sqlite"
)

// sessionServiceImpl implements the SessionService interface
type sessionServiceImpl struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
}

// NewSessionService creates a new SessionService instance
func NewSessionService(repo sqlite.Repository) SessionService {
	return &sessionServiceImpl{
		repo:   repo,
		mapper: domain.NewMapper(),
	}
}

// GetSession returns the stored session, or an empty one when none is set
func (s *sessionServiceImpl) GetSession(ctx context.Context) (*domain.Session, error) {
	rec, err := s.repo.GetSession(ctx)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return &domain.Session{}, nil
		}
		return nil, err
	}
	session := s.mapper.Session.FromDatabase(*rec)
	return &session, nil
}

// SetSession selects the operator working with the tool
func (s *sessionServiceImpl) SetSession(ctx context.Context, operatorID, operatorName string) (*domain.Session, error) {
	session := domain.Session{OperatorID: trimmed(operatorID), OperatorName: trimmed(operatorName)}
	if !session.IsSet() {
		return nil, errors.NewInvalidInputError("operario", operatorID, "el operario es obligatorio")
	}

	rec := s.mapper.Session.ToDatabase(session)
	if err := s.repo.SaveSession(ctx, &rec); err != nil {
		return nil, err
	}
	session.UpdatedAt = rec.UpdatedAt
	return &session, nil
}

// ClearSession forgets the selected operator
func (s *sessionServiceImpl) ClearSession(ctx context.Context) error {
	return s.repo.ClearSession(ctx)
}

// RequireSession returns the session or an error asking to select an operator
func (s *sessionServiceImpl) RequireSession(ctx context.Context) (*domain.Session, error) {
	session, err := s.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if !session.IsSet() {
		return nil, errors.NewInvalidInputError("operario", "", "no hay un operario seleccionado, usa 'jt session set'")
	}
	return session, nil
}
