// Package logger expone un logger Zap singleton con scoping por contexto.
//
// Init se llama una vez desde el comando serve; el resto del código usa
// From(ctx) para obtener el logger del request (con request_id, method, path
// y account_id si hay identidad) o L() cuando no hay contexto.
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Reissue"))
//	log.Info("refresh rotated", logger.AccountID(id))
package logger
