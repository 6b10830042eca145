package ocr

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Instruction is the fixed prompt sent with every page image.
const Instruction = "Extract all text from this image. Return only the extracted text without any additional formatting or explanations."

const defaultRemoteTimeout = 30 * time.Second

// BlobGenerator sends a binary payload with an instruction to a multimodal
// model and returns its text answer.
type BlobGenerator interface {
	GenerateFromBlob(ctx context.Context, instruction string, data []byte, mediaType string) (string, error)
}

// Remote is the network tier backed by a vision-capable completion service.
type Remote struct {
	generator BlobGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

func NewRemote(generator BlobGenerator, timeout time.Duration, logger *zap.Logger) *Remote {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Remote{generator: generator, timeout: timeout, logger: logger}
}

func (r *Remote) Recognize(ctx context.Context, req Request) (string, error) {
	if r == nil || r.generator == nil {
		return "", ErrUnavailable
	}

	switch req.MediaType {
	case MediaTypePDF, MediaTypePNG, MediaTypeJPEG:
	default:
		return "", ErrUnsupported
	}

	if len(req.Data) == 0 {
		return "", nil
	}

	instruction := Instruction
	if req.Page > 0 && req.MediaType == MediaTypePDF {
		instruction = fmt.Sprintf("%s Read only page %d of the document.", Instruction, req.Page)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	requestID := uuid.NewString()
	r.logger.Debug("remote ocr request",
		zap.String("ocr_request_id", requestID),
		zap.Int("bytes", len(req.Data)),
		zap.Int("page", req.Page),
	)

	text, err := r.generator.GenerateFromBlob(ctx, instruction, req.Data, req.MediaType)
	if err != nil {
		return "", fmt.Errorf("remote ocr: %w", err)
	}

	text = collapseWhitespace(text)
	r.logger.Debug("remote ocr response",
		zap.String("ocr_request_id", requestID),
		zap.Int("chars", len([]rune(text))),
	)

	return text, nil
}
