package submissionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	submissiondomain "github.com/ieee-sb/thesandbox/app/modules/submission/domain"
	submissiondb "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/repositories"
	submissionstorage "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/storage"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/dberrors"
	"github.com/ieee-sb/thesandbox/pkg/events"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"github.com/uptrace/bun"
)

// Submit stores the files of one phase for the caller's team. A preliminary
// submission may be replaced; later phases accept a single submission.
// Objects written to storage are removed again when the row cannot be saved.
func (s *SubmissionService) Submit(ctx context.Context, caller *authdomain.Claims, phaseName string, input SubmitInput) (*SubmissionView, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "Submit", phaseName, func(ctx context.Context) (results.OperationResult[*SubmissionView, error], error) {
		return s.submitLogic(ctx, caller, phaseName, input)
	}))
}

func (s *SubmissionService) submitLogic(ctx context.Context, caller *authdomain.Claims, phaseName string, input SubmitInput) (results.OperationResult[*SubmissionView, error], error) {
	phase, ok := submissiondomain.ParsePhase(phaseName)
	if !ok {
		return operation.Fail[*SubmissionView](apperrors.Validation(fmt.Sprintf("unknown submission phase %q", phaseName)))
	}
	if caller == nil || caller.Kind != authdomain.SubjectUser {
		return operation.Fail[*SubmissionView](apperrors.New(apperrors.KindUnauthorized, apperrors.CodeSessionRequired, "sign in to submit"))
	}

	reg, err := s.loadRegistration(ctx, caller.Subject, input.RegistrationID)
	if err != nil {
		return operation.Fail[*SubmissionView](err)
	}
	comp, err := s.competitionFor(ctx, nil, reg)
	if err != nil {
		return operation.Fail[*SubmissionView](err)
	}

	prior, err := s.repo.GetByRegistrationAndPhase(ctx, nil, reg.ID, string(phase))
	if err != nil && !errors.Is(err, submissiondb.ErrNotFound) {
		return results.OperationResult[*SubmissionView, error]{}, fmt.Errorf("failed to get prior submission: %w", err)
	}

	now := s.clock.Now()
	gate, err := submissiondomain.CheckGate(submissiondomain.GateInput{
		CallerID:               caller.Subject,
		OwnerID:                reg.UserID,
		Dates:                  comp.ToDomain().Dates,
		Phase:                  phase,
		CurrentPhase:           competitiondomain.Phase(reg.CurrentPhase),
		IsPreliminaryQualified: reg.IsPreliminaryQualified,
		IsSemifinalQualified:   reg.IsSemifinalQualified,
		HasPrior:               prior != nil,
		Now:                    now,
	})
	if err != nil {
		return operation.Fail[*SubmissionView](err)
	}

	uploads := make([]submissiondomain.Upload, 0, len(input.Files))
	for _, f := range input.Files {
		uploads = append(uploads, f.Upload)
	}
	specs := submissiondomain.RequiredFiles(competitiondomain.Code(comp.Code), phase)
	if problems := submissiondomain.ValidateUploads(specs, uploads); len(problems) > 0 {
		return operation.Fail[*SubmissionView](apperrors.WithMetadata(
			apperrors.KindValidation, apperrors.CodeInvalidFile, "the uploaded files do not match this phase",
			map[string]any{"problems": problems, "required": specs},
		))
	}

	stored, err := s.store(ctx, comp.Code, phase, reg.ID, now.Unix(), input.Files)
	if err != nil {
		return operation.Fail[*SubmissionView](err)
	}

	var replaced []submissiondb.StoredFile
	if prior != nil {
		replaced = append(replaced, prior.Files...)
	}

	persistTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*SubmissionView, error], error) {
		return s.persist(ctx, db, reg, prior, phase, caller.Subject, stored)
	}
	result, err := operation.InTx(s.runner, ctx, persistTx)
	if prior == nil && phase == competitiondomain.PhasePreliminary && isRegistrationPhaseConflict(err) {
		// Another first upload won the insert; preliminary work is replaceable,
		// so overwrite the winner.
		prior, err = s.repo.GetByRegistrationAndPhase(ctx, nil, reg.ID, string(phase))
		if err != nil {
			err = fmt.Errorf("failed to get concurrent submission: %w", err)
		} else {
			replaced = append(replaced, prior.Files...)
			result, err = operation.InTx(s.runner, ctx, persistTx)
		}
	}
	if err != nil || result.IsFailure() {
		s.discard(ctx, objectKeys(stored))
		if isRegistrationPhaseConflict(err) {
			return operation.Fail[*SubmissionView](apperrors.WithMetadata(apperrors.KindConflict, apperrors.CodeAlreadySubmitted,
				"a "+phase.String()+" submission already exists",
				map[string]any{"phase": phase},
			))
		}
		return result, err
	}

	if gate.Replace || len(replaced) > 0 {
		s.discard(ctx, staleKeys(replaced, stored))
	}

	view := *result.Success
	view.CompetitionCode = comp.Code
	if reg.Team != nil {
		view.TeamName = reg.Team.TeamName
	}
	s.dispatcher.Dispatch(ctx, events.SubmissionCreatedV1, events.SubmissionCreatedPayload{
		SubmissionID:    view.ID,
		RegistrationID:  reg.ID,
		CompetitionCode: comp.Code,
		TeamName:        view.TeamName,
		Phase:           view.Phase,
		Replaced:        view.Replaced,
		SubmittedAt:     view.SubmittedAt,
	})
	return operation.Succeed(view)
}

// loadRegistration resolves the registration a participant submits for. The
// caller's own registration is used when id is zero.
func (s *SubmissionService) loadRegistration(ctx context.Context, userID, id uuid.UUID) (*registrationdb.Registration, error) {
	var (
		reg *registrationdb.Registration
		err error
	)
	if id == uuid.Nil {
		reg, err = s.registrations.GetByUserID(ctx, nil, userID)
	} else {
		reg, err = s.registrations.GetByID(ctx, nil, id)
	}
	if err != nil {
		if errors.Is(err, registrationdb.ErrNotFound) {
			return nil, apperrors.NotFound("registration not found")
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

// store uploads every file. On the first failure the files already written
// are removed and a dependency error is returned.
func (s *SubmissionService) store(ctx context.Context, competition string, phase competitiondomain.Phase, registrationID uuid.UUID, version int64, files []FileUpload) ([]submissiondb.StoredFile, error) {
	stored := make([]submissiondb.StoredFile, 0, len(files))
	for _, f := range files {
		key := submissionstorage.ObjectKey(competition, string(phase), registrationID.String(),
			f.Field+"-"+strconv.FormatInt(version, 10), submissiondomain.Extension(f.FileName))

		obj, err := s.storage.Upload(ctx, key, f.Body, f.Size, f.ContentType)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to store submission file",
				slog.String("key", key),
				slog.Any("error", err),
			)
			s.discard(ctx, objectKeys(stored))
			if apperrors.KindOf(err) == apperrors.KindDependency {
				return nil, err
			}
			return nil, apperrors.Dependency("file storage is unavailable", err)
		}

		stored = append(stored, submissiondb.StoredFile{
			Field:       f.Field,
			FileName:    f.FileName,
			ObjectKey:   obj.Key,
			URL:         obj.URL,
			Size:        obj.Size,
			ContentType: f.ContentType,
		})
	}
	return stored, nil
}

func (s *SubmissionService) persist(
	ctx context.Context,
	db bun.IDB,
	reg *registrationdb.Registration,
	prior *submissiondb.Submission,
	phase competitiondomain.Phase,
	submittedBy uuid.UUID,
	files []submissiondb.StoredFile,
) (results.OperationResult[*SubmissionView, error], error) {
	now := s.clock.Now()

	if prior != nil {
		prior.Files = files
		prior.Status = string(submissiondomain.StatusPending)
		prior.SubmittedBy = submittedBy
		prior.SubmittedAt = now
		prior.ReviewedBy = nil
		prior.ReviewedAt = nil
		prior.ReviewNotes = ""
		if err := s.repo.Update(ctx, db, prior,
			"files", "status", "submitted_by", "submitted_at", "reviewed_by", "reviewed_at", "review_notes",
		); err != nil {
			return results.OperationResult[*SubmissionView, error]{}, fmt.Errorf("failed to replace submission: %w", err)
		}
		view := toView(prior)
		view.Replaced = true
		return operation.Succeed(view)
	}

	sub := &submissiondb.Submission{
		ID:             uuid.New(),
		RegistrationID: reg.ID,
		Phase:          string(phase),
		Status:         string(submissiondomain.StatusPending),
		Files:          files,
		SubmittedBy:    submittedBy,
		SubmittedAt:    now,
	}
	if err := s.repo.Create(ctx, db, sub); err != nil {
		return results.OperationResult[*SubmissionView, error]{}, fmt.Errorf("failed to create submission: %w", err)
	}
	return operation.Succeed(toView(sub))
}

func isRegistrationPhaseConflict(err error) bool {
	constraint, ok := dberrors.UniqueViolation(err)
	return ok && constraint == submissiondb.ConstraintRegistrationPhase
}

func objectKeys(files []submissiondb.StoredFile) []string {
	keys := make([]string, 0, len(files))
	for _, f := range files {
		keys = append(keys, f.ObjectKey)
	}
	return keys
}

// staleKeys returns the keys of old that are not reused by current.
func staleKeys(old, current []submissiondb.StoredFile) []string {
	keep := make(map[string]bool, len(current))
	for _, f := range current {
		keep[f.ObjectKey] = true
	}
	var stale []string
	for _, f := range old {
		if f.ObjectKey != "" && !keep[f.ObjectKey] {
			stale = append(stale, f.ObjectKey)
		}
	}
	return stale
}
