package models

type AuditAction string

const (
	AuditSendNotification AuditAction = "SEND_NOTIFICATION"
	AuditBroadcastEmail   AuditAction = "BROADCAST_EMAIL"
	AuditUpdateSetting    AuditAction = "UPDATE_SETTING"
	AuditApproveManager   AuditAction = "APPROVE_MANAGER"
	AuditRejectManager    AuditAction = "REJECT_MANAGER"
)

type AuditEntry struct {
	AdminID     string                 `json:"admin_id" db:"admin_id"`
	ActionType  AuditAction            `json:"action_type" db:"action_type"`
	TargetTable string                 `json:"target_table" db:"target_table"`
	TargetID    string                 `json:"target_id,omitempty" db:"target_id"`
	Details     map[string]interface{} `json:"details,omitempty" db:"details"`
}
