package submissiondomain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0    = time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	dates = competitiondomain.Dates{
		RegistrationOpen:     t0,
		RegistrationDeadline: t0.Add(10 * 24 * time.Hour),
		PreliminaryStart:     t0.Add(5 * 24 * time.Hour),
		PreliminaryDeadline:  t0.Add(20 * 24 * time.Hour),
		SemifinalStart:       t0.Add(30 * 24 * time.Hour),
		SemifinalDeadline:    t0.Add(40 * 24 * time.Hour),
	}
)

func TestCheckGate(t *testing.T) {
	owner := uuid.New()
	inPrelim := dates.PreliminaryStart.Add(time.Hour)
	inSemi := dates.SemifinalStart.Add(time.Hour)

	tests := []struct {
		name        string
		in          GateInput
		wantCode    apperrors.Code
		wantReplace bool
	}{
		{
			name:     "caller is not the owner",
			in:       GateInput{CallerID: uuid.New(), OwnerID: owner, Dates: dates, Phase: competitiondomain.PhasePreliminary, CurrentPhase: competitiondomain.PhasePreliminary, Now: inPrelim},
			wantCode: apperrors.CodeNotOwner,
		},
		{
			name:     "ownership is checked before the window",
			in:       GateInput{CallerID: uuid.New(), OwnerID: owner, Dates: dates, Phase: competitiondomain.PhaseSemifinal, Now: inPrelim},
			wantCode: apperrors.CodeNotOwner,
		},
		{
			name:     "window closed",
			in:       GateInput{CallerID: owner, OwnerID: owner, Dates: dates, Phase: competitiondomain.PhasePreliminary, CurrentPhase: competitiondomain.PhasePreliminary, Now: dates.PreliminaryDeadline.Add(time.Millisecond)},
			wantCode: apperrors.CodeSubmissionClosed,
		},
		{
			name: "deadline instant is still open",
			in:   GateInput{CallerID: owner, OwnerID: owner, Dates: dates, Phase: competitiondomain.PhasePreliminary, CurrentPhase: competitiondomain.PhasePreliminary, Now: dates.PreliminaryDeadline},
		},
		{
			name:     "preliminary requires an approved registration",
			in:       GateInput{CallerID: owner, OwnerID: owner, Dates: dates, Phase: competitiondomain.PhasePreliminary, CurrentPhase: competitiondomain.PhaseRegistration, Now: inPrelim},
			wantCode: apperrors.CodePhaseNotAllowed,
		},
		{
			name:     "semifinal needs the phase",
			in:       GateInput{CallerID: owner, OwnerID: owner, Dates: dates, Phase: competitiondomain.PhaseSemifinal, CurrentPhase: competitiondomain.PhasePreliminary, IsPreliminaryQualified: true, Now: inSemi},
			wantCode: apperrors.CodePhaseNotAllowed,
		},
		{
			name:     "semifinal needs the qualification flag",
			in:       GateInput{CallerID: owner, OwnerID: owner, Dates: dates, Phase: competitiondomain.PhaseSemifinal, CurrentPhase: competitiondomain.PhaseSemifinal, Now: inSemi},
			wantCode: apperrors.CodePhaseNotAllowed,
		},
		{
			name: "semifinal with both",
			in:   GateInput{CallerID: owner, OwnerID: owner, Dates: dates, Phase: competitiondomain.PhaseSemifinal, CurrentPhase: competitiondomain.PhaseSemifinal, IsPreliminaryQualified: true, Now: inSemi},
		},
		{
			name:     "semifinal rejects a second submission",
			in:       GateInput{CallerID: owner, OwnerID: owner, Dates: dates, Phase: competitiondomain.PhaseSemifinal, CurrentPhase: competitiondomain.PhaseSemifinal, IsPreliminaryQualified: true, HasPrior: true, Now: inSemi},
			wantCode: apperrors.CodeAlreadySubmitted,
		},
		{
			name:        "preliminary replaces a prior submission",
			in:          GateInput{CallerID: owner, OwnerID: owner, Dates: dates, Phase: competitiondomain.PhasePreliminary, CurrentPhase: competitiondomain.PhasePreliminary, HasPrior: true, Now: inPrelim},
			wantReplace: true,
		},
		{
			name:     "final without a final window",
			in:       GateInput{CallerID: owner, OwnerID: owner, Dates: dates, Phase: competitiondomain.PhaseFinal, CurrentPhase: competitiondomain.PhaseFinal, IsSemifinalQualified: true, Now: inSemi},
			wantCode: apperrors.CodeSubmissionClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := CheckGate(tt.in)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantReplace, decision.Replace)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.GetCode(err))
		})
	}
}

func TestApprovalTransition(t *testing.T) {
	tr, ok := ApprovalTransition(competitiondomain.PhasePreliminary, true)
	require.True(t, ok)
	assert.Equal(t, Transition{SubmissionStatus: StatusQualified, NextPhase: competitiondomain.PhaseSemifinal, SetPreliminaryQualified: true}, tr)

	tr, _ = ApprovalTransition(competitiondomain.PhaseSemifinal, true)
	assert.Equal(t, competitiondomain.PhaseFinal, tr.NextPhase)
	assert.True(t, tr.SetSemifinalQualified)

	tr, _ = ApprovalTransition(competitiondomain.PhaseSemifinal, false)
	assert.Equal(t, competitiondomain.PhaseCompleted, tr.NextPhase)
	assert.True(t, tr.SetSemifinalQualified)

	tr, _ = ApprovalTransition(competitiondomain.PhaseFinal, true)
	assert.Equal(t, StatusApproved, tr.SubmissionStatus)
	assert.Equal(t, competitiondomain.PhaseCompleted, tr.NextPhase)

	_, ok = ApprovalTransition(competitiondomain.PhaseRegistration, true)
	assert.False(t, ok)
}

func TestApprovalTransition_StorablePhases(t *testing.T) {
	storable := map[competitiondomain.Phase]bool{
		competitiondomain.PhaseRegistration: true,
		competitiondomain.PhasePreliminary:  true,
		competitiondomain.PhaseSemifinal:    true,
		competitiondomain.PhaseFinal:        true,
		competitiondomain.PhaseCompleted:    true,
	}
	for _, phase := range []competitiondomain.Phase{competitiondomain.PhasePreliminary, competitiondomain.PhaseSemifinal, competitiondomain.PhaseFinal} {
		for _, hasFinal := range []bool{true, false} {
			tr, ok := ApprovalTransition(phase, hasFinal)
			require.True(t, ok)
			assert.True(t, storable[tr.NextPhase], "phase %s hasFinal=%t advanced to %s", phase, hasFinal, tr.NextPhase)
		}
	}
}

func TestValidateUploads(t *testing.T) {
	specs := RequiredFiles(competitiondomain.CodeBCC, competitiondomain.PhaseSemifinal)
	require.Len(t, specs, 2)

	tests := []struct {
		name    string
		uploads []Upload
		want    []string
	}{
		{
			name: "all present",
			uploads: []Upload{
				{Field: "businessPlan", FileName: "plan.PDF", Size: 1024},
				{Field: "pitchDeck", FileName: "deck.pptx", Size: 2048},
			},
		},
		{
			name:    "missing required",
			uploads: []Upload{{Field: "businessPlan", FileName: "plan.pdf", Size: 1}},
			want:    []string{"pitchDeck is required"},
		},
		{
			name: "wrong extension and too large",
			uploads: []Upload{
				{Field: "businessPlan", FileName: "plan.exe", Size: 10},
				{Field: "pitchDeck", FileName: "deck.pdf", Size: MaxFileSize + 1},
			},
			want: []string{"businessPlan must be one of .pdf, .docx", "pitchDeck exceeds 25 MiB"},
		},
		{
			name: "unexpected field",
			uploads: []Upload{
				{Field: "businessPlan", FileName: "plan.pdf", Size: 1},
				{Field: "pitchDeck", FileName: "deck.ppt", Size: 1},
				{Field: "extra", FileName: "x.zip", Size: 1},
			},
			want: []string{"extra is not expected for this phase"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateUploads(specs, tt.uploads))
		})
	}
}

func TestRequiredFiles(t *testing.T) {
	for _, code := range []competitiondomain.Code{competitiondomain.CodePTC, competitiondomain.CodeTPC, competitiondomain.CodeBCC} {
		for _, phase := range []competitiondomain.Phase{competitiondomain.PhasePreliminary, competitiondomain.PhaseSemifinal, competitiondomain.PhaseFinal} {
			specs := RequiredFiles(code, phase)
			assert.NotEmpty(t, specs, "%s/%s", code, phase)
			for _, s := range specs {
				for _, ext := range s.Accept {
					assert.Contains(t, AllowedExtensions, ext)
				}
			}
		}
	}
	assert.Nil(t, RequiredFiles(competitiondomain.CodePTC, competitiondomain.PhaseRegistration))
}
