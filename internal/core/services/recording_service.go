package services

import (
	"context"
	"fmt"
	"time"

	"mediroom/internal/core/domain"
	"mediroom/internal/core/ports"
	"mediroom/pkg/errors"
	"mediroom/pkg/tracing"
	"mediroom/pkg/validation"

	"go.uber.org/zap"
)

type recordingService struct {
	egress         ports.EgressClient
	layout         string
	filePathPrefix string
	logger         *zap.SugaredLogger
}

func NewRecordingService(
	egress ports.EgressClient,
	layout string,
	filePathPrefix string,
	logger *zap.SugaredLogger,
) ports.RecordingService {
	return &recordingService{
		egress:         egress,
		layout:         layout,
		filePathPrefix: filePathPrefix,
		logger:         logger,
	}
}

func (s *recordingService) StartRecording(ctx context.Context, roomName domain.RoomName) (*domain.Recording, error) {
	if roomName == "" {
		return nil, errors.NewAppError(errors.ErrCodeMissingParameter, "Room name is required", 400)
	}
	if err := validation.ValidateRoomName(string(roomName)); err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}

	ctx, span := tracing.TraceEgressOperation(ctx, "start", string(roomName))
	defer span.End()

	startedAt := time.Now()
	filePath := fmt.Sprintf("%s/%s-%d.mp4", s.filePathPrefix, roomName, startedAt.UnixMilli())

	egressID, err := s.egress.StartRoomComposite(ctx, roomName, s.layout, filePath)
	if err != nil {
		tracing.RecordError(ctx, err)
		s.logger.Errorw("egress start failed", "room", roomName, "error", err)
		// No retry here: retry, if any, is a caller concern.
		return nil, errors.NewUpstreamUnavailableError("Failed to start recording", err)
	}

	s.logger.Infow("recording started",
		"room", roomName,
		"egress_id", egressID,
		"file_path", filePath,
	)

	return &domain.Recording{
		RoomName:  roomName,
		EgressID:  egressID,
		FilePath:  filePath,
		StartedAt: startedAt,
	}, nil
}

func (s *recordingService) StopRecording(ctx context.Context, roomName domain.RoomName, egressID string) error {
	if egressID == "" && roomName == "" {
		return errors.NewAppError(errors.ErrCodeMissingParameter, "Egress ID or room name is required", 400)
	}
	if egressID == "" {
		// The egress API stops by egress ID only; a room name alone is not
		// enough to address a specific recording.
		return errors.NewAppError(errors.ErrCodeMissingParameter, "Egress ID is required", 400)
	}

	ctx, span := tracing.TraceEgressOperation(ctx, "stop", string(roomName))
	defer span.End()

	if err := s.egress.StopEgress(ctx, egressID); err != nil {
		tracing.RecordError(ctx, err)
		s.logger.Errorw("egress stop failed", "room", roomName, "egress_id", egressID, "error", err)
		return errors.NewUpstreamUnavailableError("Failed to stop recording", err)
	}

	s.logger.Infow("recording stopped", "room", roomName, "egress_id", egressID)
	return nil
}
