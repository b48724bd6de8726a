package session

import "github.com/google/uuid"

// storageNamespace es el namespace fijo para derivar subject IDs del
// servicio de storage. Cambiarlo rompe el mapeo determinístico de toda
// identidad ya emitida.
var storageNamespace = uuid.MustParse("8c1f6a2e-4b0d-4a4e-9f3a-5d2c7b1e0a96")

// StorageSubjectID mapea un ID de identidad al formato UUID que espera
// el servicio externo de storage. IDs que ya son UUID pasan intactos
// (normalizados); el resto se deriva vía hash one-way. Pura y
// reproducible: mismo input ⇒ mismo output, en cualquier proceso, sin
// tabla de lookup.
func StorageSubjectID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return uuid.NewSHA1(storageNamespace, []byte(id)).String()
}
