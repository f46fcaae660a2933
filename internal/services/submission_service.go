package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"jornada-tracker/internal/backend"
	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/logging"
	"jornada-tracker/internal/validation"
)

// submissionServiceImpl implements the SubmissionService interface
type submissionServiceImpl struct {
	drafts    DraftService
	submitter ShiftSubmitter
	validator *validation.ActivityValidator
	logger    *log.Logger
	now       func() time.Time
}

// NewSubmissionService creates a new SubmissionService instance
func NewSubmissionService(drafts DraftService, submitter ShiftSubmitter, logger *log.Logger) SubmissionService {
	return &submissionServiceImpl{
		drafts:    drafts,
		submitter: submitter,
		validator: validation.NewActivityValidator(),
		logger:    logging.OrDiscard(logger),
		now:       time.Now,
	}
}

// ValidateDraft checks that a draft can be submitted. The first blocking
// problem is returned as a validation error.
func (s *submissionServiceImpl) ValidateDraft(shift domain.Shift) error {
	if err := s.validator.ValidateShift(shift.Activities); err != nil {
		var ve *validation.ValidationError
		if stderrors.As(err, &ve) {
			return errors.NewValidationError(ve.GetUserFriendlyMessage(), ve)
		}
		return errors.NewValidationError(err.Error(), err)
	}
	return nil
}

// Submit validates and sends a draft. A rejected draft keeps its
// activities and records the error; an accepted one is marked submitted.
func (s *submissionServiceImpl) Submit(ctx context.Context, id string) (*domain.Shift, error) {
	shift, err := s.drafts.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.Status == domain.ShiftSubmitted {
		return nil, errors.NewInvalidInputError("borrador", id, "la jornada ya fue enviada")
	}

	if err := s.ValidateDraft(*shift); err != nil {
		return nil, err
	}

	payload, err := backend.BuildPayload(*shift)
	if err != nil {
		return nil, err
	}

	result, err := s.submitter.SubmitShift(ctx, shift.RemoteID, payload)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			appErr.WithContext("draft", id)
		}
		shift.LastError = errors.GetUserMessage(err)
		if saveErr := s.drafts.SaveDraft(ctx, shift); saveErr != nil {
			s.logger.Error("could not record submission error", "draft", id, "err", saveErr)
		}
		if errors.ShouldLogError(err) {
			s.logger.Warn("submission failed", append([]interface{}{"err", err}, errors.LogFields(err)...)...)
		}
		return shift, err
	}

	submittedAt := s.now()
	shift.Status = domain.ShiftSubmitted
	shift.RemoteID = result.ID
	shift.LastError = ""
	shift.SubmittedAt = &submittedAt
	if err := s.drafts.SaveDraft(ctx, shift); err != nil {
		return nil, err
	}

	s.logger.Info("shift submitted", "draft", id, "remote", result.ID, "created", result.Created, "payload", payload.String())
	return shift, nil
}
