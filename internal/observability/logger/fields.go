package logger

import (
	"time"

	"go.uber.org/zap"
)

// ─── Campos HTTP ───

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field { return zap.String("request_id", v) }

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field { return zap.String("method", v) }

// Path crea un campo para el path del request.
func Path(v string) zap.Field { return zap.String("path", v) }

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field { return zap.Int("status", v) }

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// ─── Campos de negocio ───

// YachtID crea un campo para el ID del yacht (tenant).
func YachtID(v string) zap.Field { return zap.String("yacht_id", v) }

// UserID crea un campo para el ID del usuario.
func UserID(v string) zap.Field { return zap.String("user_id", v) }

// Email crea un campo para el email (usar con cuidado en prod).
func Email(v string) zap.Field { return zap.String("email", v) }

// Role crea un campo para el rol del usuario.
func Role(v string) zap.Field { return zap.String("role", v) }

// Feature crea un campo para una feature key del plan.
func Feature(v string) zap.Field { return zap.String("feature", v) }

// Limit crea un campo para una limit key del plan.
func Limit(v string) zap.Field { return zap.String("limit", v) }

// PlanID crea un campo para el ID del plan.
func PlanID(v string) zap.Field { return zap.String("plan_id", v) }

// ─── Campos de sistema ───

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field { return zap.String("component", v) }

// Op crea un campo para la operación actual.
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer crea un campo para la capa (handler, service, repository).
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Err crea un campo para un error.
func Err(err error) zap.Field { return zap.Error(err) }

// Reason crea un campo con el motivo interno de una denegación.
// Solo para logs de servidor; nunca viaja al cliente.
func Reason(v string) zap.Field { return zap.String("reason", v) }

// String crea un campo string genérico.
func String(key, v string) zap.Field { return zap.String(key, v) }

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field { return zap.Int(key, v) }

// Bool crea un campo bool genérico.
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
