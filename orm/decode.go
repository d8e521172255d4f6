package orm

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/ridoystarlord/bakery/database"
)

func decodeRow(row database.Row, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "db",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(row))
}

func decodeRows[T any](table string, rows []database.Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		var v T
		if err := decodeRow(row, &v); err != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", table, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
