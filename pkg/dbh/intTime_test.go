package dbh

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type intTimeTester struct {
	ID     int64   `gorm:"primaryKey" json:"id"`
	MyTime IntTime `json:"myTime"`
}

func TestIntTime(t *testing.T) {
	t1 := IntTime(0)
	a := time.Date(2022, time.February, 3, 4, 5, 6, 777*1000*1000, time.UTC)
	t1.Set(a)
	require.Equal(t, a, t1.Get())

	db := openSqliteTestDB(t)
	require.NoError(t, db.Exec("CREATE TABLE int_time_tester (id INTEGER PRIMARY KEY, my_time INT)").Error)

	// Ensure that an IntTime value of zero ends up as 'null' in the database.
	null := intTimeTester{
		ID:     1,
		MyTime: 0,
	}
	require.NoError(t, db.Save(&null).Error)
	read := intTimeTester{}
	require.NoError(t, db.First(&read).Error)
	require.Equal(t, null, read)

	nullable := sql.NullInt64{}
	require.NoError(t, db.Raw("SELECT my_time FROM int_time_tester WHERE id = 1").Row().Scan(&nullable))
	require.Equal(t, false, nullable.Valid)

	// Check JSON representation of null IntTime
	jj, err := json.Marshal(&null)
	require.NoError(t, err)
	require.Equal(t, `{"id":1,"myTime":0}`, string(jj))

	// Ensure we get expected IsZero()
	t0 := IntTime(0)
	require.True(t, t0.IsZero())
	require.True(t, t0.Get().IsZero())
	require.Equal(t, t0, MakeIntTime(time.Time{}))

	// test non-null values
	other := intTimeTester{
		ID:     2,
		MyTime: MakeIntTime(a),
	}
	require.NoError(t, db.Save(&other).Error)
	other2 := intTimeTester{}
	require.NoError(t, db.Where("id = 2").First(&other2).Error)
	require.Equal(t, other.MyTime, other2.MyTime)
}

func openSqliteTestDB(t *testing.T) *gorm.DB {
	db, err := gormOpen(DriverSqlite, filepath.Join(t.TempDir(), "unit-test.sqlite"))
	require.NoError(t, err)
	return db
}
