package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rpattn/verge/internal/domain"
)

func TestWriteMatrix(t *testing.T) {
	chain := domain.NewVersionChain(
		domain.MustVersion("2021-01-01"),
		domain.HeadVersion(),
	)

	older := []domain.SchemaDefinition{
		domain.NewSchemaDefinition("user", "", []domain.FieldDefinition{
			{Name: "id", Type: domain.FieldTypeString, Required: true},
			{Name: "addr", Type: domain.FieldTypeString},
		}),
	}
	newer := []domain.SchemaDefinition{
		domain.NewSchemaDefinition("user", "", []domain.FieldDefinition{
			{Name: "id", Type: domain.FieldTypeString, Required: true},
			{Name: "address", Type: domain.FieldTypeString},
		}),
	}

	schemas := map[domain.VersionKey][]domain.SchemaDefinition{
		"2021-01-01":          older,
		domain.HeadVersionKey: newer,
	}
	routes := map[domain.VersionKey][]domain.Endpoint{
		"2021-01-01": {
			{Method: "DELETE", Path: "/users/{id}", SuccessStatus: 204},
			{Method: "GET", Path: "/users", SuccessStatus: 200, ResponseSchema: "user"},
		},
		domain.HeadVersionKey: {
			{Method: "GET", Path: "/users", SuccessStatus: 200, ResponseSchema: "user"},
		},
	}

	path := filepath.Join(t.TempDir(), "matrix.xlsx")
	require.NoError(t, WriteMatrix(path, chain, schemas, routes))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	sheets := f.GetSheetList()
	require.ElementsMatch(t, []string{"Fields", "Routes"}, sheets)

	header, err := f.GetCellValue("Fields", "A1")
	require.NoError(t, err)
	require.Equal(t, "schema.field", header)

	oldest, err := f.GetCellValue("Fields", "B1")
	require.NoError(t, err)
	require.Equal(t, "2021-01-01", oldest)

	// Rows are sorted: user.addr, user.address, user.id.
	addrAt2021, err := f.GetCellValue("Fields", "B2")
	require.NoError(t, err)
	require.Equal(t, "string", addrAt2021)

	addrAtHead, err := f.GetCellValue("Fields", "C2")
	require.NoError(t, err)
	require.Empty(t, addrAtHead, "addr does not exist at head")

	addressAtHead, err := f.GetCellValue("Fields", "C3")
	require.NoError(t, err)
	require.Equal(t, "string", addressAtHead)

	// Route rows are sorted by path then method: GET /users, DELETE /users/{id}.
	deleteAtHead, err := f.GetCellValue("Routes", "C3")
	require.NoError(t, err)
	require.Empty(t, deleteAtHead, "DELETE is not exposed at head")

	deleteAt2021, err := f.GetCellValue("Routes", "B3")
	require.NoError(t, err)
	require.Equal(t, "204", deleteAt2021)
}
