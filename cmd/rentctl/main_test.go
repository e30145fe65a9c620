package main

import (
	"bytes"
	"strings"
	"testing"

	"rentexpress/internal/testutil/apitest"
)

func TestRentctl(t *testing.T) {
	srv := apitest.NewServer(t)
	state := t.TempDir()

	rentctl := func(args ...string) (int, string, string) {
		t.Helper()
		var stdout, stderr bytes.Buffer
		code := run(append([]string{"-api", srv.URL, "-state", state}, args...), &stdout, &stderr)
		return code, stdout.String(), stderr.String()
	}

	code, out, _ := rentctl("session")
	if code != 0 || !strings.Contains(out, "Iniciar Sesión | Registrarse") {
		t.Fatalf("session = %d %q", code, out)
	}

	code, _, errOut := rentctl("select", "1")
	if code != 1 || !strings.Contains(errOut, "Debes iniciar sesión para seleccionar un vehículo") {
		t.Fatalf("anonymous select = %d %q", code, errOut)
	}

	code, _, errOut = rentctl("register", "-username", "ana", "-email", "ana@x.com", "-password", "secret1", "-confirm", "secret2", "-name", "Ana")
	if code != 1 || !strings.Contains(errOut, "Las contraseñas no coinciden") {
		t.Fatalf("mismatched register = %d %q", code, errOut)
	}

	code, out, errOut = rentctl("register", "-username", "ana", "-email", "ana@x.com", "-password", "secret1", "-confirm", "secret1", "-name", "Ana")
	if code != 0 || !strings.Contains(out, "Hola, Ana") || !strings.Contains(errOut, "Registro exitoso") {
		t.Fatalf("register = %d %q %q", code, out, errOut)
	}

	code, out, _ = rentctl("vehicles")
	if code != 0 || !strings.Contains(out, "Toyota RAV4") || !strings.Contains(out, "RD$ 4,500.00/día") || strings.Contains(out, "Elantra") {
		t.Fatalf("vehicles = %d %q", code, out)
	}

	code, out, _ = rentctl("search", "-max-price", "2500")
	if code != 0 || !strings.Contains(out, "Toyota Corolla") || strings.Contains(out, "Honda Civic") {
		t.Fatalf("search = %d %q", code, out)
	}

	code, out, _ = rentctl("select", "abc")
	if code != 2 {
		t.Fatalf("bad id = %d %q", code, out)
	}

	code, out, _ = rentctl("select", "3")
	if code != 0 || !strings.Contains(out, "Vehículo seleccionado: Toyota Corolla") {
		t.Fatalf("select = %d %q", code, out)
	}
	code, out, _ = rentctl("session")
	if code != 0 || !strings.Contains(out, "Vehículo seleccionado: Toyota Corolla") {
		t.Fatalf("selection not kept = %d %q", code, out)
	}
	code, _, errOut = rentctl("select", "-clear")
	if code != 0 || !strings.Contains(errOut, "Selección eliminada") {
		t.Fatalf("select -clear = %d %q", code, errOut)
	}
	code, out, _ = rentctl("session")
	if code != 0 || strings.Contains(out, "Vehículo seleccionado") {
		t.Fatalf("selection survived clear = %d %q", code, out)
	}

	code, out, errOut = rentctl("select", "999")
	if code != 1 || !strings.Contains(errOut, "Vehículo no encontrado") {
		t.Fatalf("unknown vehicle = %d %q", code, errOut)
	}

	code, out, _ = rentctl("logout")
	if code != 0 || !strings.Contains(out, "Iniciar Sesión") {
		t.Fatalf("logout = %d %q", code, out)
	}

	code, out, errOut = rentctl("login", "-email", "ana@x.com", "-password", "secret1")
	if code != 0 || !strings.Contains(out, "next: inicio.html") {
		t.Fatalf("login = %d %q %q", code, out, errOut)
	}

	code, _, _ = rentctl("bogus")
	if code != 2 {
		t.Fatalf("unknown command = %d", code)
	}
}
