package valueobjects

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Haleralex/fundhub/internal/domain/errors"
)

// MaxPlanFileSize limits the uploaded business plan.
const MaxPlanFileSize = 20 << 20

// PlanContentType is the only accepted plan format.
const PlanContentType = "application/pdf"

// Validation errors for plan files.
var (
	ErrPlanFileEmpty  = errors.NewValidationError("plan", "plan_file_empty", "plan file is empty")
	ErrPlanFileTooBig = errors.NewValidationError("plan", "plan_file_too_large", fmt.Sprintf("plan file must be at most %d bytes", MaxPlanFileSize))
	ErrPlanFileNotPDF = errors.NewValidationError("plan", "plan_file_not_pdf", "plan file must be a PDF document")
)

// PlanFile is a project business plan held fully in memory.
// The content type is detected from the bytes, never taken from the client.
type PlanFile struct {
	content []byte
}

// NewPlanFile validates size and content type.
func NewPlanFile(content []byte) (PlanFile, error) {
	if len(content) == 0 {
		return PlanFile{}, ErrPlanFileEmpty
	}
	if len(content) > MaxPlanFileSize {
		return PlanFile{}, ErrPlanFileTooBig
	}
	if !mimetype.Detect(content).Is(PlanContentType) {
		return PlanFile{}, ErrPlanFileNotPDF
	}

	buf := make([]byte, len(content))
	copy(buf, content)
	return PlanFile{content: buf}, nil
}

// Content returns a copy of the file bytes.
func (p PlanFile) Content() []byte {
	buf := make([]byte, len(p.content))
	copy(buf, p.content)
	return buf
}

// Size returns the file size in bytes.
func (p PlanFile) Size() int {
	return len(p.content)
}

// ContentType returns the MIME type of the plan.
func (p PlanFile) ContentType() string {
	return PlanContentType
}

// IsZero reports whether no plan was provided.
func (p PlanFile) IsZero() bool {
	return len(p.content) == 0
}
