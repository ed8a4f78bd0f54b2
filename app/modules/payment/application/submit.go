package paymentservice

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	paymentdomain "github.com/ieee-sb/thesandbox/app/modules/payment/domain"
	paymentdb "github.com/ieee-sb/thesandbox/app/modules/payment/infrastructure/repositories"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	submissiondomain "github.com/ieee-sb/thesandbox/app/modules/submission/domain"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/dberrors"
	"github.com/ieee-sb/thesandbox/pkg/events"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"github.com/uptrace/bun"
)

// SubmitProof stores a transfer receipt for the caller's registration. The
// amount due is the competition fee. A pending or rejected proof is replaced;
// a verified one cannot be.
func (s *PaymentService) SubmitProof(ctx context.Context, caller *authdomain.Claims, input ProofInput) (*PaymentView, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "SubmitProof", input.RegistrationID.String(), func(ctx context.Context) (results.OperationResult[*PaymentView, error], error) {
		return s.submitLogic(ctx, caller, input)
	}))
}

func (s *PaymentService) submitLogic(ctx context.Context, caller *authdomain.Claims, input ProofInput) (results.OperationResult[*PaymentView, error], error) {
	if caller == nil || caller.Kind != authdomain.SubjectUser {
		return operation.Fail[*PaymentView](apperrors.New(apperrors.KindUnauthorized, apperrors.CodeSessionRequired, "sign in to upload a payment proof"))
	}

	reg, err := s.loadRegistration(ctx, nil, caller.Subject, input.RegistrationID)
	if err != nil {
		return operation.Fail[*PaymentView](err)
	}
	if reg.UserID != caller.Subject {
		return operation.Fail[*PaymentView](apperrors.New(apperrors.KindForbidden, apperrors.CodeNotOwner, "only the team leader can pay for this registration"))
	}
	comp, err := s.competitionFor(ctx, nil, reg)
	if err != nil {
		return operation.Fail[*PaymentView](err)
	}
	if comp.RegistrationFee <= 0 {
		return operation.Fail[*PaymentView](apperrors.New(apperrors.KindState, apperrors.CodeNoFeeDue, "this competition has no registration fee"))
	}

	prior, err := s.repo.GetByRegistration(ctx, nil, reg.ID)
	if err != nil && !errors.Is(err, paymentdb.ErrNotFound) {
		return results.OperationResult[*PaymentView, error]{}, fmt.Errorf("failed to get payment: %w", err)
	}
	if prior != nil && !paymentdomain.CanReplace(paymentdomain.Status(prior.Status)) {
		return operation.Fail[*PaymentView](apperrors.New(apperrors.KindConflict, apperrors.CodePaymentVerified, "the registration fee has already been verified"))
	}

	if problem := paymentdomain.ValidateProof(input.FileName, input.Size); problem != "" {
		return operation.Fail[*PaymentView](apperrors.New(apperrors.KindValidation, apperrors.CodeInvalidFile, problem))
	}

	now := s.clock.Now()
	key := path.Join("payments", reg.ID.String(), "proof-"+strconv.FormatInt(now.Unix(), 10)+submissiondomain.Extension(input.FileName))
	obj, err := s.storage.Upload(ctx, key, input.Body, input.Size, input.ContentType)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindDependency {
			return operation.Fail[*PaymentView](err)
		}
		return operation.Fail[*PaymentView](apperrors.Dependency("file storage is unavailable", err))
	}

	var oldKey string
	if prior != nil {
		oldKey = prior.ProofKey
	}

	persistTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*PaymentView, error], error) {
		return s.persist(ctx, db, reg, prior, comp.RegistrationFee, input.FileName, obj.Key, obj.URL)
	}
	result, err := operation.InTx(s.runner, ctx, persistTx)
	if err != nil || result.IsFailure() {
		s.discard(ctx, obj.Key)
		if constraint, ok := dberrors.UniqueViolation(err); ok && constraint == paymentdb.ConstraintRegistration {
			return operation.Fail[*PaymentView](apperrors.New(apperrors.KindConflict, apperrors.CodeDuplicateRecord, "a payment proof is already being processed"))
		}
		return result, err
	}
	if oldKey != obj.Key {
		s.discard(ctx, oldKey)
	}

	view := *result.Success
	view.CompetitionCode = comp.Code
	if reg.Team != nil {
		view.TeamName = reg.Team.TeamName
	}
	s.dispatcher.Dispatch(ctx, events.PaymentSubmittedV1, events.PaymentSubmittedPayload{
		PaymentID:       view.ID,
		RegistrationID:  reg.ID,
		CompetitionCode: comp.Code,
		TeamName:        view.TeamName,
		Amount:          view.Amount,
		ProofURL:        view.ProofURL,
	})
	return operation.Succeed(view)
}

func (s *PaymentService) persist(
	ctx context.Context,
	db bun.IDB,
	reg *registrationdb.Registration,
	prior *paymentdb.Payment,
	amount int64,
	fileName, key, url string,
) (results.OperationResult[*PaymentView, error], error) {
	now := s.clock.Now()

	if prior != nil {
		prior.Amount = amount
		prior.ProofKey = key
		prior.ProofURL = url
		prior.ProofFileName = fileName
		prior.Status = string(paymentdomain.StatusPending)
		prior.SubmittedAt = now
		prior.ReviewedBy = nil
		prior.ReviewedAt = nil
		prior.ReviewNotes = ""
		if err := s.repo.Update(ctx, db, prior,
			"amount", "proof_key", "proof_url", "proof_file_name", "status", "submitted_at", "reviewed_by", "reviewed_at", "review_notes",
		); err != nil {
			return results.OperationResult[*PaymentView, error]{}, fmt.Errorf("failed to replace payment: %w", err)
		}
		return operation.Succeed(toView(prior))
	}

	p := &paymentdb.Payment{
		ID:             uuid.New(),
		RegistrationID: reg.ID,
		Amount:         amount,
		ProofKey:       key,
		ProofURL:       url,
		ProofFileName:  fileName,
		Status:         string(paymentdomain.StatusPending),
		SubmittedAt:    now,
	}
	if err := s.repo.Create(ctx, db, p); err != nil {
		return results.OperationResult[*PaymentView, error]{}, fmt.Errorf("failed to create payment: %w", err)
	}
	return operation.Succeed(toView(p))
}
