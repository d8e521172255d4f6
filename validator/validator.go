package validator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/bakery/schema"
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Type     string `json:"type"`
	Table    string `json:"table,omitempty"`
	Column   string `json:"column,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error" or "warning"
}

func (e ValidationError) String() string {
	return e.Message
}

// ValidationResult contains all validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
}

func (r *ValidationResult) addError(typ, table, column, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{
		Type:     typ,
		Table:    table,
		Column:   column,
		Message:  fmt.Sprintf(format, args...),
		Severity: "error",
	})
}

func (r *ValidationResult) addWarning(typ, table, column, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{
		Type:     typ,
		Table:    table,
		Column:   column,
		Message:  fmt.Sprintf(format, args...),
		Severity: "warning",
	})
}

// ValidateModels checks table descriptors without touching the store.
func ValidateModels(models []*schema.Model) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	seen := make(map[string]bool)
	for _, model := range models {
		if seen[model.TableName] {
			result.addError("duplicate_table", model.TableName, "", "Table '%s' is declared twice", model.TableName)
			continue
		}
		seen[model.TableName] = true

		if err := validateIdentifier("table", model.TableName); err != nil {
			result.addError("table_name", model.TableName, "", "%v", err)
		}
		validateColumns(model, result)
	}

	validateCrossTableConstraints(models, result)

	result.Valid = len(result.Errors) == 0
	return result
}

var reservedKeywords = []string{"user", "order", "group", "table", "index", "view", "schema", "select"}

// validateIdentifier applies PostgreSQL identifier rules
func validateIdentifier(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if len(name) > 63 {
		return fmt.Errorf("%s name '%s' is too long (max 63 characters)", kind, name)
	}
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '_') {
			return fmt.Errorf("%s name '%s' contains invalid character '%c'", kind, name, char)
		}
	}
	if kind == "table" {
		for _, keyword := range reservedKeywords {
			if strings.ToLower(name) == keyword {
				return fmt.Errorf("table name '%s' is a reserved keyword", name)
			}
		}
	}
	return nil
}

func validateColumns(model *schema.Model, result *ValidationResult) {
	if len(model.Columns) == 0 {
		result.addError("no_columns", model.TableName, "", "Table '%s' must have at least one column", model.TableName)
		return
	}

	columnNames := make(map[string]bool)
	primaryKeys := 0
	for _, column := range model.Columns {
		if columnNames[column.Name] {
			result.addError("duplicate_column", model.TableName, column.Name,
				"Duplicate column name '%s' in table '%s'", column.Name, model.TableName)
			continue
		}
		columnNames[column.Name] = true

		if err := validateIdentifier("column", column.Name); err != nil {
			result.addError("column_name", model.TableName, column.Name, "%v", err)
		}
		if err := validateDataType(column.Type); err != nil {
			result.addError("data_type", model.TableName, column.Name, "%v", err)
		}
		if column.Primary {
			primaryKeys++
		}
		if column.Default != nil {
			if err := validateDefaultValue(column.Type, *column.Default); err != nil {
				result.addWarning("default_value", model.TableName, column.Name, "%v", err)
			}
		}
		if column.ForeignKey != nil {
			if err := validateForeignKeyDefinition(column, model.TableName); err != nil {
				result.addError("foreign_key", model.TableName, column.Name, "%v", err)
			}
		}
	}

	if primaryKeys != 1 {
		result.addError("primary_key", model.TableName, "",
			"Table '%s' must have exactly one primary key, found %d", model.TableName, primaryKeys)
	}
}

var validTypes = map[string]bool{
	"smallint": true, "integer": true, "bigint": true,
	"decimal": true, "numeric": true, "real": true, "double precision": true,
	"serial": true, "bigserial": true, "smallserial": true,
	"varchar": true, "character varying": true, "char": true, "text": true,
	"bytea": true,
	"timestamp": true, "timestamptz": true, "date": true, "time": true,
	"boolean": true, "bool": true,
	"json": true, "jsonb": true,
	"uuid": true,
}

func validateDataType(dataType string) error {
	if dataType == "" {
		return fmt.Errorf("missing data type")
	}
	if !validTypes[strings.ToLower(dataType)] {
		return fmt.Errorf("unsupported data type '%s'", dataType)
	}
	return nil
}

// validateDefaultValue validates default value against data type
func validateDefaultValue(dataType, defaultValue string) error {
	dataType = strings.ToLower(dataType)
	switch {
	case strings.Contains(dataType, "int") || strings.Contains(dataType, "serial"):
		if !strings.Contains(defaultValue, "(") && strings.Contains(defaultValue, ".") {
			return fmt.Errorf("integer type cannot have decimal default value '%s'", defaultValue)
		}
	case strings.Contains(dataType, "char") || dataType == "text":
		if !strings.Contains(defaultValue, "(") && !strings.HasPrefix(defaultValue, "'") {
			return fmt.Errorf("string type should have quoted default value '%s'", defaultValue)
		}
	case dataType == "boolean" || dataType == "bool":
		switch strings.ToLower(defaultValue) {
		case "true", "false":
		default:
			return fmt.Errorf("boolean type should have true/false default value, got '%s'", defaultValue)
		}
	}
	return nil
}

var validActions = []string{"CASCADE", "SET NULL", "SET DEFAULT", "RESTRICT", "NO ACTION"}

func validateForeignKeyDefinition(column schema.Column, tableName string) error {
	fk := column.ForeignKey
	if fk.ReferencesTable == "" {
		return fmt.Errorf("foreign key references table cannot be empty")
	}
	if fk.ReferencesColumn == "" {
		return fmt.Errorf("foreign key references column cannot be empty")
	}
	if fk.ReferencesTable == tableName && fk.ReferencesColumn == column.Name {
		return fmt.Errorf("foreign key cannot reference itself")
	}
	for name, action := range map[string]string{"onDelete": fk.OnDelete, "onUpdate": fk.OnUpdate} {
		if action == "" {
			continue
		}
		valid := false
		for _, a := range validActions {
			if strings.ToUpper(action) == a {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid %s action '%s', must be one of: %v", name, action, validActions)
		}
	}
	return nil
}

// validateCrossTableConstraints checks that foreign keys and relations
// point at declared tables and columns.
func validateCrossTableConstraints(models []*schema.Model, result *ValidationResult) {
	tableMap := make(map[string]*schema.Model)
	for _, model := range models {
		tableMap[model.TableName] = model
	}

	for _, model := range models {
		for _, column := range model.Columns {
			fk := column.ForeignKey
			if fk == nil {
				continue
			}
			target, exists := tableMap[fk.ReferencesTable]
			if !exists {
				result.addError("foreign_key_table_not_found", model.TableName, column.Name,
					"Foreign key references non-existent table '%s'", fk.ReferencesTable)
				continue
			}
			if !target.HasColumn(fk.ReferencesColumn) {
				result.addError("foreign_key_column_not_found", model.TableName, column.Name,
					"Foreign key references non-existent column '%s' in table '%s'", fk.ReferencesColumn, fk.ReferencesTable)
			}
		}

		for _, rel := range model.Relations {
			if !model.HasColumn(rel.FromColumn) {
				result.addError("relation_column_not_found", model.TableName, rel.FromColumn,
					"Relation '%s' uses non-existent column '%s' in table '%s'", rel.Name, rel.FromColumn, model.TableName)
			}
			target, exists := tableMap[rel.ToTable]
			if !exists {
				result.addError("relation_table_not_found", model.TableName, "",
					"Relation '%s' targets non-existent table '%s'", rel.Name, rel.ToTable)
				continue
			}
			if !target.HasColumn(rel.ToColumn) {
				result.addError("relation_column_not_found", model.TableName, rel.ToColumn,
					"Relation '%s' targets non-existent column '%s' in table '%s'", rel.Name, rel.ToColumn, rel.ToTable)
			}
		}
	}
}
