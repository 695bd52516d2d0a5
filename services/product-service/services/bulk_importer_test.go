package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/catalogcsv"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
)

type fakeCreator struct {
	created []models.ProductRecord
	reject  map[string]string
	fail    map[string]error
	panicOn string
}

func (f *fakeCreator) CreateProduct(_ context.Context, rec models.ProductRecord) (models.CreateResult, error) {
	if rec.Name == f.panicOn {
		panic("boom")
	}
	if err := f.fail[rec.Name]; err != nil {
		return models.CreateResult{}, err
	}
	if msg, ok := f.reject[rec.Name]; ok {
		return models.CreateResult{Success: false, Error: msg}, nil
	}
	f.created = append(f.created, rec)
	return models.CreateResult{Success: true, Data: &rec}, nil
}

type fakeUploader struct {
	calls []string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, name string, img models.ImageFile) (string, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.test/" + img.Filename, nil
}

func parse(t *testing.T, feed string) []catalogcsv.Row {
	t.Helper()
	rows, err := catalogcsv.Parse(strings.NewReader(feed))
	require.NoError(t, err)
	return rows
}

const header = "name,description,price,category,image,stock,featured,defaultWeight,shelfLife,deliveryTime\n"

func TestImport_EmptyPriceFailsOnlyThatRow(t *testing.T) {
	creator := &fakeCreator{}
	imp := NewBulkImporter(nil, creator, nil, nil)

	rows := parse(t, header+
		"Ladoo,Besan,120,Classic,https://img/ladoo.jpg,10,false,,,\n"+
		"Barfi,Milk,,Classic,https://img/barfi.jpg,5,false,,,\n"+
		"Peda,Mathura,200,Classic,https://img/peda.jpg,7,false,,,\n")

	res, err := imp.Import(context.Background(), rows, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Row 3")
	assert.Len(t, creator.created, 2)
}

func TestImport_ForcesFeaturedFalseAndDefaults(t *testing.T) {
	creator := &fakeCreator{}
	imp := NewBulkImporter(nil, creator, nil, nil)

	rows := parse(t, header+`"Kaju Katli","Cashew, silver leaf",650,Dry,https://img/kk.jpg,abc,true,,10 days,1 day`+"\n")
	res, err := imp.Import(context.Background(), rows, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Success)

	got := creator.created[0]
	assert.False(t, got.Featured)
	assert.Equal(t, "500g", got.DefaultWeight)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, "Cashew, silver leaf", got.Description)
	assert.Equal(t, 650.0, got.Price)
	assert.Equal(t, "https://img/kk.jpg", got.Image)
}

func TestImport_NegativeStockDefaultsToZero(t *testing.T) {
	creator := &fakeCreator{}
	imp := NewBulkImporter(nil, creator, nil, nil)

	rows := parse(t, header+
		"Ladoo,Besan,120,Classic,https://img/ladoo.jpg,-5,false,,,\n"+
		"Barfi,Milk,150,Classic,https://img/barfi.jpg,8,false,,,\n")
	res, err := imp.Import(context.Background(), rows, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)
	assert.Zero(t, res.Failed)
	require.Len(t, creator.created, 2)
	assert.Equal(t, 0, creator.created[0].Stock)
	assert.Equal(t, 8, creator.created[1].Stock)

	rec, err := ToProduct(parse(t, "name,price,stock\nPeda,200,-1\n")[0])
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Stock)
}

func TestImport_ImagePolicy(t *testing.T) {
	uploader := &fakeUploader{}
	creator := &fakeCreator{}
	imp := NewBulkImporter(uploader, creator, nil, nil)

	rows := parse(t, header+
		"Rasmalai,,300,,https://img/ignored.jpg,1,,,,\n"+
		"Jalebi,,90,,jalebi.jpg,1,,,,\n")
	images := ImagesByName([]models.ImageFile{{Filename: "Rasmalai.png", Data: []byte{1}}})

	res, err := imp.Import(context.Background(), rows, images)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 1, res.Warnings)
	assert.Equal(t, []string{"Rasmalai"}, uploader.calls)
	assert.Equal(t, "https://cdn.test/Rasmalai.png", creator.created[0].Image)
	assert.Equal(t, "", creator.created[1].Image)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Row 3")
	assert.Contains(t, res.Errors[0], "manually")
}

func TestImport_UploadFailureIsAWarning(t *testing.T) {
	uploader := &fakeUploader{err: errors.New("s3 down")}
	creator := &fakeCreator{}
	imp := NewBulkImporter(uploader, creator, nil, nil)

	rows := parse(t, header+"Halwa,,150,,,,,,,\n")
	res, err := imp.Import(context.Background(), rows, ImagesByName([]models.ImageFile{{Filename: "Halwa.jpg"}}))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Warnings)
	assert.Equal(t, "", creator.created[0].Image)
	assert.Contains(t, res.Errors[0], "image upload failed")
}

func TestImport_CollaboratorFailuresAreRowErrors(t *testing.T) {
	creator := &fakeCreator{
		reject:  map[string]string{"Ladoo": `product "Ladoo" already exists`},
		fail:    map[string]error{"Barfi": errors.New("dynamodb timeout")},
		panicOn: "Peda",
	}
	imp := NewBulkImporter(nil, creator, nil, nil)

	rows := parse(t, header+
		"Ladoo,,120,,https://i/1,,,,,\n"+
		"Barfi,,200,,https://i/2,,,,,\n"+
		"Peda,,200,,https://i/3,,,,,\n"+
		"Imarti,,80,,https://i/4,,,,,\n")

	res, err := imp.Import(context.Background(), rows, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 3, res.Failed)
	assert.Equal(t, []string{
		`Row 2: product "Ladoo" already exists`,
		"Row 3: failed to create product",
		"Row 4: unexpected error while importing",
	}, res.Errors)
}

func TestImport_StopsBetweenRowsOnCancel(t *testing.T) {
	creator := &fakeCreator{}
	imp := NewBulkImporter(nil, creator, nil, nil)
	rows := parse(t, header+"A,,1,,https://i,,,,,\nB,,2,,https://i,,,,,\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := imp.Import(ctx, rows, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Success+res.Failed)
	assert.Empty(t, creator.created)
}

func TestToProduct_Validation(t *testing.T) {
	cases := map[string]string{
		"missing name":   "name,price\n,100\n",
		"zero price":     "name,price\nA,0\n",
		"negative price": "name,price\nA,-5\n",
		"text price":     "name,price\nA,free\n",
	}
	for name, feed := range cases {
		t.Run(name, func(t *testing.T) {
			rows := parse(t, feed)
			_, err := ToProduct(rows[0])
			assert.Error(t, err)
		})
	}
}

func TestParseCatalog(t *testing.T) {
	rows, err := ParseCatalog(FormatCSV, []byte("name,price\nA,1\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = ParseCatalog(FormatCSV, []byte("name,price\n"))
	assert.ErrorIs(t, err, catalogcsv.ErrNoDataRows)

	_, err = ParseCatalog("json", []byte("{}"))
	assert.Error(t, err)
}
