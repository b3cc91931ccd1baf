package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sushi-orders/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
	err   error
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,key,name,description,price,stock
00000000-0000-0000-0000-000000000001,salmon-nigiri,Salmon Nigiri,Two pieces,4.50,2
,,Dragon Roll Deluxe,,12,8
,,,,,
,tuna-maki,Tuna Maki,,6.2,`

	repo := &stubProductRepo{}
	count, err := NewCSVImporter(strings.NewReader(csvData), repo).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, repo.items, 3)

	assert.Equal(t, domain.Product{
		ID:          "00000000-0000-0000-0000-000000000001",
		Key:         "salmon-nigiri",
		Name:        "Salmon Nigiri",
		Description: "Two pieces",
		Price:       450,
		Stock:       2,
	}, repo.items[0])
	assert.Equal(t, "dragon-roll-deluxe", repo.items[1].Key)
	assert.Equal(t, domain.Money(1200), repo.items[1].Price)
	assert.Equal(t, 8, repo.items[1].Stock)
	assert.Equal(t, domain.Money(620), repo.items[2].Price)
	assert.Zero(t, repo.items[2].Stock)
}

func TestCSVImporter_RejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"missing name":   "name,price\n,4.50",
		"bad price":      "name,price\nRoll,abc",
		"zero price":     "name,price\nRoll,0",
		"negative stock": "name,price,stock\nRoll,1,-2",
		"bad id":         "id,name,price\nnope,Roll,1",
		"bad key":        "key,name,price\nNot A Slug,Roll,1",
		"no price col":   "name,stock\nRoll,1",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubProductRepo{}
			_, err := NewCSVImporter(strings.NewReader(data), repo).Run(context.Background())
			require.Error(t, err)
			assert.Empty(t, repo.items)
		})
	}
}

func TestCSVImporter_StopsOnWriteError(t *testing.T) {
	boom := errors.New("boom")
	repo := &stubProductRepo{err: boom}
	count, err := NewCSVImporter(strings.NewReader("name,price\nRoll,1\nSoup,2"), repo).Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Zero(t, count)
	assert.Contains(t, err.Error(), "line 2")
}
