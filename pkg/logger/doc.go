// Package logger builds *slog.Logger instances for the notification service.
//
// New picks a JSON or text handler from the APP_ENV preset and, when
// ContextExtractor callbacks are registered, wraps it so each record also
// carries values from the request context. The server uses this to stamp
// every line with the request id assigned by the router middleware.
//
// Attribute helpers in attr.go keep key names consistent across packages:
//
//	log.LogAttrs(ctx, slog.LevelWarn, "relay trigger failed",
//	    logger.NotificationID(n.ID),
//	    logger.EventType(n.EventType),
//	    logger.Error(err),
//	)
//
// Identifier helpers return an empty slog.Attr for empty values, which slog
// drops from the output.
package logger
