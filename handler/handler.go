package handler

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"claif-api/dto"
	"claif-api/service"
)

type ServiceDependencies struct {
	DeletionService service.DeletionService
}

// DeletionRequestHandler consumes queued deletion requests and applies the
// soft delete through the deletion service.
func DeletionRequestHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var m dto.DeletionRequestedMessage
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal deletion request message")
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("message_id", m.MessageID.String()).
		Uint("deletion_request_id", m.DeletionRequestID).
		Str("object_type", m.ObjectType.String()).
		Msg("received deletion request message")

	return deps.DeletionService.Process(ctx, m)
}
