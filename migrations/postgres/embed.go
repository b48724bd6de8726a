// Package migrations embebe los archivos SQL de migración.
package migrations

import "embed"

// CoreFS contiene las migraciones del esquema principal.
//
//go:embed core/*.sql
var CoreFS embed.FS

// CoreDir es el directorio dentro de CoreFS donde viven las migraciones.
const CoreDir = "core"
