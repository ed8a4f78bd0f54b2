package submissiondomain

import (
	"fmt"
	"path/filepath"
	"strings"

	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
)

// MaxFileSize is the per-file upload limit.
const MaxFileSize int64 = 25 << 20

// AllowedExtensions lists the file types accepted for any slot.
var AllowedExtensions = []string{".pdf", ".pptx", ".ppt", ".zip", ".mp4", ".docx"}

// FileSpec is one upload slot of a phase.
type FileSpec struct {
	Field    string   `json:"field"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Accept   []string `json:"accept"`
}

var (
	documents = []string{".pdf", ".docx"}
	slides    = []string{".pdf", ".pptx", ".ppt"}
	video     = []string{".mp4"}
	archive   = []string{".zip"}
)

var requiredFiles = map[competitiondomain.Code]map[competitiondomain.Phase][]FileSpec{
	competitiondomain.CodePTC: {
		competitiondomain.PhasePreliminary: {
			{Field: "abstract", Label: "Abstract", Required: true, Accept: documents},
			{Field: "poster", Label: "Poster draft", Required: true, Accept: []string{".pdf"}},
		},
		competitiondomain.PhaseSemifinal: {
			{Field: "poster", Label: "Final poster", Required: true, Accept: []string{".pdf"}},
			{Field: "video", Label: "Explanation video", Required: true, Accept: video},
		},
		competitiondomain.PhaseFinal: {
			{Field: "presentation", Label: "Presentation slides", Required: true, Accept: slides},
		},
	},
	competitiondomain.CodeTPC: {
		competitiondomain.PhasePreliminary: {
			{Field: "abstract", Label: "Abstract", Required: true, Accept: documents},
		},
		competitiondomain.PhaseSemifinal: {
			{Field: "paper", Label: "Full paper", Required: true, Accept: documents},
			{Field: "supplement", Label: "Supplementary material", Accept: archive},
		},
		competitiondomain.PhaseFinal: {
			{Field: "presentation", Label: "Presentation slides", Required: true, Accept: slides},
		},
	},
	competitiondomain.CodeBCC: {
		competitiondomain.PhasePreliminary: {
			{Field: "proposal", Label: "Business proposal", Required: true, Accept: documents},
		},
		competitiondomain.PhaseSemifinal: {
			{Field: "businessPlan", Label: "Business plan", Required: true, Accept: documents},
			{Field: "pitchDeck", Label: "Pitch deck", Required: true, Accept: slides},
		},
		competitiondomain.PhaseFinal: {
			{Field: "presentation", Label: "Presentation slides", Required: true, Accept: slides},
			{Field: "prototype", Label: "Prototype or demo video", Accept: append(append([]string{}, video...), archive...)},
		},
	},
}

// RequiredFiles returns the upload slots for a competition and phase, or nil
// when the phase takes no uploads.
func RequiredFiles(code competitiondomain.Code, phase competitiondomain.Phase) []FileSpec {
	return requiredFiles[code][phase]
}

// Upload describes one received file before it is stored.
type Upload struct {
	Field       string
	FileName    string
	Size        int64
	ContentType string
}

// Extension returns the lowercased extension of name including the dot.
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// ValidateUploads checks received files against the slots of a phase. It
// returns one problem per offending slot, in slot order.
func ValidateUploads(slots []FileSpec, uploads []Upload) []string {
	byField := make(map[string]Upload, len(uploads))
	for _, u := range uploads {
		byField[u.Field] = u
	}

	var problems []string
	known := make(map[string]bool, len(slots))
	for _, slot := range slots {
		known[slot.Field] = true
		u, ok := byField[slot.Field]
		if !ok {
			if slot.Required {
				problems = append(problems, fmt.Sprintf("%s is required", slot.Field))
			}
			continue
		}
		if u.Size <= 0 {
			problems = append(problems, fmt.Sprintf("%s is empty", slot.Field))
			continue
		}
		if u.Size > MaxFileSize {
			problems = append(problems, fmt.Sprintf("%s exceeds %d MiB", slot.Field, MaxFileSize>>20))
			continue
		}
		if !accepts(slot.Accept, Extension(u.FileName)) {
			problems = append(problems, fmt.Sprintf("%s must be one of %s", slot.Field, strings.Join(slot.Accept, ", ")))
		}
	}
	for _, u := range uploads {
		if !known[u.Field] {
			problems = append(problems, fmt.Sprintf("%s is not expected for this phase", u.Field))
		}
	}
	return problems
}

func accepts(accept []string, ext string) bool {
	if len(accept) == 0 {
		accept = AllowedExtensions
	}
	for _, a := range accept {
		if a == ext {
			return true
		}
	}
	return false
}
