package main

import (
	"image"
	"testing"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

func TestEditsFlag(t *testing.T) {
	e := editsFlag{}
	if err := e.Set("company=Acme Inc"); err != nil {
		t.Fatal(err)
	}
	if err := e.Set("email="); err != nil {
		t.Fatal(err)
	}
	if e[entity.FieldCompany] != "Acme Inc" {
		t.Errorf("company = %q", e[entity.FieldCompany])
	}
	if v, ok := e[entity.FieldEmail]; !ok || v != "" {
		t.Errorf("empty edit should be kept: %q %v", v, ok)
	}
	for _, bad := range []string{"company", "fax=1"} {
		if err := e.Set(bad); err == nil {
			t.Errorf("Set(%q) should fail", bad)
		}
	}
}

func TestRectFlag(t *testing.T) {
	var r rectFlag
	if err := r.Set("10, 20,110,80"); err != nil {
		t.Fatal(err)
	}
	if r.Rectangle != image.Rect(10, 20, 110, 80) || r.String() != "10,20,110,80" {
		t.Errorf("rect = %v", r.Rectangle)
	}
	for _, bad := range []string{"1,2,3", "a,b,c,d", "5,5,5,5"} {
		if err := r.Set(bad); err == nil {
			t.Errorf("Set(%q) should fail", bad)
		}
	}
}

func TestCameraFor(t *testing.T) {
	cam, sides := cameraFor("/dev/video0", "/dev/video2")
	if sides[constants.Front] != constants.FacingEnvironment || sides[constants.Back] != constants.FacingUser {
		t.Fatalf("sides = %v", sides)
	}
	if cam.Devices[constants.FacingEnvironment] != "/dev/video0" || cam.Devices[constants.FacingUser] != "/dev/video2" {
		t.Fatalf("devices = %v", cam.Devices)
	}

	cam, sides = cameraFor("/dev/video0", "/dev/video0")
	if sides[constants.Back] != constants.FacingEnvironment || len(cam.Devices) != 1 {
		t.Fatalf("shared device: sides = %v devices = %v", sides, cam.Devices)
	}

	_, sides = cameraFor("", "/dev/video1")
	if _, ok := sides[constants.Front]; ok || sides[constants.Back] != constants.FacingUser {
		t.Fatalf("back only: sides = %v", sides)
	}
}
