package businessflow

import (
	"bytes"
	"context"
	"testing"

	"github.com/amirphl/spam-guard/app/dto"
	"github.com/amirphl/spam-guard/repository"
	testingutil "github.com/amirphl/spam-guard/testing"
	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSpamExportFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := NewSpamExportFlow(repository.NewSpamNumberRepository(testDB.DB))
		ctx := context.Background()

		created, err := fixtures.CreateMultipleTestSpamNumbers()
		require.NoError(t, err)
		_, err = fixtures.CreateTestSpamNumber("+18095550000", "", "pbx")
		require.NoError(t, err)

		t.Run("CSV", func(t *testing.T) {
			file, err := flow.Export(ctx, "csv")
			require.NoError(t, err)
			assert.Equal(t, "numeros_spam.csv", file.Filename)
			assert.Contains(t, file.ContentType, "text/csv")

			var rows []*dto.SpamNumberExportRow
			require.NoError(t, gocsv.UnmarshalBytes(file.Content, &rows))
			require.Len(t, rows, len(created)+1)
			assert.Equal(t, created[0].Number, rows[0].Number)
			assert.Equal(t, "fixture sistema", rows[0].Note)
			assert.Equal(t, "", rows[3].Note)
			assert.NotEmpty(t, rows[0].RegisteredAt)
		})

		t.Run("XLSXIsDefault", func(t *testing.T) {
			file, err := flow.Export(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, "numeros_spam.xlsx", file.Filename)

			xl, err := excelize.OpenReader(bytes.NewReader(file.Content))
			require.NoError(t, err)
			defer xl.Close()

			rows, err := xl.GetRows("numeros_spam")
			require.NoError(t, err)
			require.Len(t, rows, len(created)+2)
			assert.Equal(t, []string{"id", "numero", "nota", "quienagrego", "fecharegistro"}, rows[0])
			assert.Equal(t, created[1].Number, rows[2][1])
			assert.Equal(t, "agent1", rows[2][3])
		})

		t.Run("FormatIsCaseInsensitive", func(t *testing.T) {
			file, err := flow.Export(ctx, " XLSX ")
			require.NoError(t, err)
			assert.Equal(t, "numeros_spam.xlsx", file.Filename)
		})

		t.Run("UnsupportedFormat", func(t *testing.T) {
			_, err := flow.Export(ctx, "pdf")
			require.Error(t, err)
			assert.True(t, IsUnsupportedExportFormat(err))
		})

		return nil
	})
	require.NoError(t, err)
}
