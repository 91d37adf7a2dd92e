package locales

// MessagesEnUS English (US) translations
var MessagesEnUS = map[string]string{
	// Common messages
	"success":        "Operation successful",
	"common.success": "Success",
	"error":          "Operation failed",
	"unauthorized":   "Unauthorized",
	"forbidden":      "Forbidden",
	"not_found":      "Not found",
	"bad_request":    "Bad request",
	"internal_error": "Internal error",
	"invalid_param":  "Invalid parameter",

	// Authentication related
	"auth.invalid_key":  "Invalid authorization key",
	"auth.key_required": "Authorization key required",

	// Project related
	"project.created":     "Project created successfully",
	"project.updated":     "Project updated successfully",
	"project.deleted":     "Project deleted successfully",
	"project.archived":    "Project archived",
	"project.unarchived":  "Project reopened",
	"project.not_found":   "Project not found",
	"project.transferred": "Project ownership transferred",

	// Document related
	"document.created":   "Document ingested successfully",
	"document.deleted":   "Document deleted successfully",
	"document.assigned":  "Translator assignment updated",
	"document.not_found": "Document not found",

	// Segment related
	"segment.created":    "Segment created successfully",
	"segment.translated": "Segment machine-translated",
	"segment.edited":     "Segment updated",
	"segment.approved":   "Segment approved",
	"segment.rejected":   "Segment rejected",
	"segment.reopened":   "Segment reopened",
	"segment.reset":      "Segment reset",
	"segment.conflict":   "Segment was modified by someone else; reload and retry",
	"segment.not_found":  "Segment not found",

	// Membership related
	"member.granted":      "Role granted",
	"member.revoked":      "Role revoked",
	"team.created":        "Team created successfully",
	"team.deleted":        "Team deleted successfully",
	"team.member_added":   "Team member added",
	"team.member_removed": "Team member removed",
	"team.linked":         "Team linked to project",
	"team.unlinked":       "Team unlinked from project",

	// Translation memory and glossary
	"memory.deleted":   "Translation memory entry deleted",
	"glossary.created": "Glossary term created",
	"glossary.updated": "Glossary term updated",
	"glossary.deleted": "Glossary term deleted",

	// Settings related
	"settings.updated": "Settings updated successfully",
}
