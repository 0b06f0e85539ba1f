package utils

import (
	"encoding/json"
	"net"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"

	"fleet-admin-server/models"
	"fleet-admin-server/storage"
)

// Audit records one admin action with before/after snapshots.
func Audit(ctx iris.Context, action, resourceType string, resourceID uint, before interface{}, after interface{}) {
	AuditWithWarnings(ctx, action, resourceType, resourceID, before, after, nil)
}

// AuditWithWarnings additionally persists non-fatal mirror divergence so the
// reconcile screen can surface which replicas fell behind and when.
func AuditWithWarnings(ctx iris.Context, action, resourceType string, resourceID uint, before, after, warnings interface{}) {
	var beforeStr, afterStr, warningsStr string
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			beforeStr = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			afterStr = string(a)
		}
	}
	if warnings != nil {
		if w, err := json.Marshal(warnings); err == nil {
			warningsStr = string(w)
		}
	}

	var adminID uint
	if tok := jsonWT.Get(ctx); tok != nil {
		if at, ok := tok.(*AccessToken); ok {
			adminID = at.ID
		}
	}

	entry := models.AuditLog{
		AdminUserID:  adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeStr,
		AfterJSON:    afterStr,
		Warnings:     warningsStr,
		IPAddress:    clientIP(ctx),
	}
	storage.DB.Create(&entry)
}

func clientIP(ctx iris.Context) string {
	if ip := ctx.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, _ := net.SplitHostPort(ctx.RemoteAddr())
	return ip
}
