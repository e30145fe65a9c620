package services

import (
	"context"
	"errors"
	"testing"

	"rentexpress/internal/db"
	"rentexpress/internal/testutil"

	"github.com/rs/zerolog"
)

type stubImages struct {
	prefix string
	fail   bool
}

func (s stubImages) ResolveImage(_ context.Context, ref string) (string, error) {
	if s.fail {
		return "", errors.New("presign failed")
	}
	return s.prefix + ref, nil
}

func TestVehicleService_ListAvailable(t *testing.T) {
	d := testutil.OpenTestDB(t)
	svc := NewVehicleService(d, db.SQLite, nil, zerolog.Nop())

	newest := testutil.InsertVehicle(t, d, "Kia", "Rio", 2024, 2000, true, "2025-06-01 12:00:00")
	hidden := testutil.InsertVehicle(t, d, "Ford", "Fiesta", 2019, 1500, false, "2025-07-01 12:00:00")

	vehicles, err := svc.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}

	// seed has four available vehicles plus the one inserted above
	if len(vehicles) != 5 {
		t.Fatalf("got %d vehicles, want 5", len(vehicles))
	}
	if vehicles[0].ID != newest {
		t.Fatalf("first vehicle = %d, want newest %d", vehicles[0].ID, newest)
	}
	for i, v := range vehicles {
		if !v.Available {
			t.Fatalf("unavailable vehicle %d listed", v.ID)
		}
		if v.ID == hidden {
			t.Fatalf("hidden vehicle listed")
		}
		if i > 0 && v.CreatedAt.After(vehicles[i-1].CreatedAt) {
			t.Fatalf("vehicles not ordered newest first at %d", i)
		}
		if v.PricePerDay < 0 {
			t.Fatalf("negative price on %d", v.ID)
		}
	}
	if vehicles[0].Color == nil || *vehicles[0].Color != "Blanco" {
		t.Fatalf("color not scanned: %+v", vehicles[0])
	}
}

func TestVehicleService_EmptyListIsNotNil(t *testing.T) {
	d := testutil.OpenTestDB(t)
	if _, err := d.Exec(`UPDATE vehicles SET available = ?`, false); err != nil {
		t.Fatalf("hide vehicles: %v", err)
	}

	vehicles, err := NewVehicleService(d, db.SQLite, nil, zerolog.Nop()).ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if vehicles == nil || len(vehicles) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", vehicles)
	}
}

func TestVehicleService_ResolvesImages(t *testing.T) {
	d := testutil.OpenTestDB(t)
	id := testutil.InsertVehicle(t, d, "Kia", "Rio", 2024, 2000, true, "2025-06-01 12:00:00")
	if _, err := d.Exec(`UPDATE vehicles SET image = ? WHERE id = ?`, "cars/rio.jpg", id); err != nil {
		t.Fatalf("set image: %v", err)
	}

	vehicles, err := NewVehicleService(d, db.SQLite, stubImages{prefix: "https://cdn.test/"}, zerolog.Nop()).ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if vehicles[0].Image == nil || *vehicles[0].Image != "https://cdn.test/cars/rio.jpg" {
		t.Fatalf("image = %v", vehicles[0].Image)
	}
	if vehicles[1].Image != nil {
		t.Fatalf("vehicle without image got %q", *vehicles[1].Image)
	}

	// a failing resolver drops the image but keeps the vehicle
	vehicles, err = NewVehicleService(d, db.SQLite, stubImages{fail: true}, zerolog.Nop()).ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if vehicles[0].ID != id || vehicles[0].Image != nil {
		t.Fatalf("unexpected vehicle after resolver failure: %+v", vehicles[0])
	}
}

func TestVehicleService_StorageFailure(t *testing.T) {
	d := testutil.OpenTestDB(t)
	svc := NewVehicleService(d, db.SQLite, nil, zerolog.Nop())
	_ = d.Close()

	vehicles, err := svc.ListAvailable(context.Background())
	if !errors.Is(err, ErrStorage) || vehicles != nil {
		t.Fatalf("ListAvailable on closed db = %v, %v", vehicles, err)
	}
}
