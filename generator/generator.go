package generator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/bakery/query"
	"github.com/ridoystarlord/bakery/schema"
)

// GenerateSQL returns one CREATE TABLE IF NOT EXISTS statement per model,
// in the order given. Referenced tables must come first.
func GenerateSQL(models []*schema.Model, dialect string) ([]string, error) {
	var sqlStatements []string
	for _, m := range models {
		stmt, err := generateCreateTable(m, dialect)
		if err != nil {
			return nil, fmt.Errorf("generate CREATE TABLE %s: %v", m.TableName, err)
		}
		sqlStatements = append(sqlStatements, stmt)
	}
	return sqlStatements, nil
}

// GenerateDropSQL drops the tables of models in reverse order so that
// referencing tables go first.
func GenerateDropSQL(models []*schema.Model) []string {
	var sqlStatements []string
	for i := len(models) - 1; i >= 0; i-- {
		sqlStatements = append(sqlStatements, fmt.Sprintf(`DROP TABLE IF EXISTS "%s";`, models[i].TableName))
	}
	return sqlStatements
}

func generateCreateTable(m *schema.Model, dialect string) (string, error) {
	if dialect != query.Postgres && dialect != query.SQLite {
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
	if len(m.Columns) == 0 {
		return "", fmt.Errorf("table has no columns")
	}

	var parts []string
	var constraints []string
	for _, col := range m.Columns {
		def, err := columnDefinition(col, dialect)
		if err != nil {
			return "", err
		}
		parts = append(parts, def)

		if fk := col.ForeignKey; fk != nil {
			stmt := fmt.Sprintf(`CONSTRAINT "fk_%s_%s" FOREIGN KEY ("%s") REFERENCES "%s" ("%s")`,
				m.TableName,
				fk.ReferencesTable,
				col.Name,
				fk.ReferencesTable,
				fk.ReferencesColumn,
			)
			if fk.OnDelete != "" {
				stmt += fmt.Sprintf(" ON DELETE %s", fk.OnDelete)
			}
			if fk.OnUpdate != "" {
				stmt += fmt.Sprintf(" ON UPDATE %s", fk.OnUpdate)
			}
			constraints = append(constraints, stmt)
		}
	}

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (%s);`,
		m.TableName, strings.Join(append(parts, constraints...), ", ")), nil
}

func columnDefinition(col schema.Column, dialect string) (string, error) {
	if col.Type == "" {
		return "", fmt.Errorf("column %s has no type", col.Name)
	}
	colType := col.Type
	serial := strings.EqualFold(colType, "serial")

	// sqlite has no serial type; an INTEGER PRIMARY KEY is the rowid.
	if dialect == query.SQLite && serial {
		if !col.Primary {
			return "", fmt.Errorf("column %s: serial must be the primary key on sqlite", col.Name)
		}
		return fmt.Sprintf(`"%s" INTEGER PRIMARY KEY AUTOINCREMENT`, col.Name), nil
	}

	stmt := fmt.Sprintf(`"%s" %s`, col.Name, colType)
	if col.Primary {
		stmt += " PRIMARY KEY"
	} else if col.NotNull {
		stmt += " NOT NULL"
	}
	if col.Default != nil {
		stmt += fmt.Sprintf(" DEFAULT %s", *col.Default)
	}
	return stmt, nil
}
