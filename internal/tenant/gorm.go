package tenant

import (
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Aware is implemented by all tenant-scoped persistence models.
type Aware interface {
	GetTenantId() int64
	SetTenantId(int64)
}

var awareType = reflect.TypeOf((*Aware)(nil)).Elem()

// RegisterCallbacks installs the persistence-layer tenant guard on the
// GORM instance. Every query, update and delete against a tenant-aware
// model is restricted to the tenant bound to the statement context, and
// creates are stamped with it. The technical tenant bypasses both.
// Enforcing this here means no repository can forget the filter.
func RegisterCallbacks(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("tenant:filter_query", filterByTenant); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenant:filter_update", filterByTenant); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("tenant:filter_delete", filterByTenant); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("tenant:filter_row", filterByTenant); err != nil {
		return err
	}
	return db.Callback().Create().Before("gorm:create").Register("tenant:stamp_create", stampTenant)
}

func filterByTenant(tx *gorm.DB) {
	tenantId, bound := FromContext(tx.Statement.Context)
	if !bound || tenantId == TechnicalTenantId {
		return
	}
	if !statementIsTenantAware(tx) {
		return
	}
	tx.Statement.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "tenant_id"},
			Value:  tenantId,
		},
	}})
}

func stampTenant(tx *gorm.DB) {
	tenantId, bound := FromContext(tx.Statement.Context)
	if !bound || tenantId == TechnicalTenantId {
		return
	}
	dest := tx.Statement.Dest
	if dest == nil {
		return
	}
	v := reflect.ValueOf(dest)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			stampValue(tx, v.Index(i), tenantId)
		}
	default:
		stampValue(tx, v, tenantId)
	}
}

func stampValue(tx *gorm.DB, v reflect.Value, tenantId int64) {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct || !v.CanAddr() {
		return
	}
	aware, ok := v.Addr().Interface().(Aware)
	if !ok {
		return
	}
	if aware.GetTenantId() == 0 {
		aware.SetTenantId(tenantId)
		return
	}
	if aware.GetTenantId() != tenantId {
		_ = tx.AddError(gorm.ErrInvalidData)
	}
}

func statementIsTenantAware(tx *gorm.DB) bool {
	if isTenantAware(tx.Statement.Model) {
		return true
	}
	return isTenantAware(tx.Statement.Dest)
}

func isTenantAware(v interface{}) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	return reflect.PtrTo(t).Implements(awareType)
}
