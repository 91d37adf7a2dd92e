package locales

// MessagesZhCN Chinese (Simplified) translations
var MessagesZhCN = map[string]string{
	// Common messages
	"success":        "操作成功",
	"common.success": "成功",
	"error":          "操作失败",
	"unauthorized":   "未授权",
	"forbidden":      "禁止访问",
	"not_found":      "未找到",
	"bad_request":    "请求错误",
	"internal_error": "内部错误",
	"invalid_param":  "参数无效",

	// Authentication related
	"auth.invalid_key":  "授权密钥无效",
	"auth.key_required": "需要授权密钥",

	// Project related
	"project.created":     "项目创建成功",
	"project.updated":     "项目更新成功",
	"project.deleted":     "项目删除成功",
	"project.archived":    "项目已归档",
	"project.unarchived":  "项目已重新打开",
	"project.not_found":   "项目不存在",
	"project.transferred": "项目所有权已转移",

	// Document related
	"document.created":   "文档导入成功",
	"document.deleted":   "文档删除成功",
	"document.assigned":  "译员分配已更新",
	"document.not_found": "文档不存在",

	// Segment related
	"segment.created":    "句段创建成功",
	"segment.translated": "句段已机器翻译",
	"segment.edited":     "句段已更新",
	"segment.approved":   "句段已批准",
	"segment.rejected":   "句段已驳回",
	"segment.reopened":   "句段已重新打开",
	"segment.reset":      "句段已重置",
	"segment.conflict":   "句段已被他人修改,请刷新后重试",
	"segment.not_found":  "句段不存在",

	// Membership related
	"member.granted":      "角色已授予",
	"member.revoked":      "角色已撤销",
	"team.created":        "团队创建成功",
	"team.deleted":        "团队删除成功",
	"team.member_added":   "团队成员已添加",
	"team.member_removed": "团队成员已移除",
	"team.linked":         "团队已关联到项目",
	"team.unlinked":       "团队已与项目解除关联",

	// Translation memory and glossary
	"memory.deleted":   "翻译记忆条目已删除",
	"glossary.created": "术语已创建",
	"glossary.updated": "术语已更新",
	"glossary.deleted": "术语已删除",

	// Settings related
	"settings.updated": "设置更新成功",
}
