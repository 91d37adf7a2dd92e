package locales

// MessagesEsES Spanish (Spain) translations
var MessagesEsES = map[string]string{
	// Common messages
	"success":        "Operación exitosa",
	"common.success": "Éxito",
	"error":          "Operación fallida",
	"unauthorized":   "No autorizado",
	"forbidden":      "Prohibido",
	"not_found":      "No encontrado",
	"bad_request":    "Solicitud incorrecta",
	"internal_error": "Error interno",
	"invalid_param":  "Parámetro no válido",

	// Authentication related
	"auth.invalid_key":  "Clave de autorización no válida",
	"auth.key_required": "Se requiere clave de autorización",

	// Project related
	"project.created":     "Proyecto creado correctamente",
	"project.updated":     "Proyecto actualizado correctamente",
	"project.deleted":     "Proyecto eliminado correctamente",
	"project.archived":    "Proyecto archivado",
	"project.unarchived":  "Proyecto reabierto",
	"project.not_found":   "Proyecto no encontrado",
	"project.transferred": "Propiedad del proyecto transferida",

	// Document related
	"document.created":   "Documento ingerido correctamente",
	"document.deleted":   "Documento eliminado correctamente",
	"document.assigned":  "Asignación de traductor actualizada",
	"document.not_found": "Documento no encontrado",

	// Segment related
	"segment.created":    "Segmento creado correctamente",
	"segment.translated": "Segmento traducido automáticamente",
	"segment.edited":     "Segmento actualizado",
	"segment.approved":   "Segmento aprobado",
	"segment.rejected":   "Segmento rechazado",
	"segment.reopened":   "Segmento reabierto",
	"segment.reset":      "Segmento restablecido",
	"segment.conflict":   "El segmento fue modificado por otra persona; recargue y reintente",
	"segment.not_found":  "Segmento no encontrado",

	// Membership related
	"member.granted":      "Rol concedido",
	"member.revoked":      "Rol revocado",
	"team.created":        "Equipo creado correctamente",
	"team.deleted":        "Equipo eliminado correctamente",
	"team.member_added":   "Miembro añadido al equipo",
	"team.member_removed": "Miembro eliminado del equipo",
	"team.linked":         "Equipo vinculado al proyecto",
	"team.unlinked":       "Equipo desvinculado del proyecto",

	// Translation memory and glossary
	"memory.deleted":   "Entrada de memoria de traducción eliminada",
	"glossary.created": "Término de glosario creado",
	"glossary.updated": "Término de glosario actualizado",
	"glossary.deleted": "Término de glosario eliminado",

	// Settings related
	"settings.updated": "Configuración actualizada correctamente",
}
