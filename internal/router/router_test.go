package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-adoption/internal/config"
	"pet-adoption/internal/router"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{BaseURL: "http://adopta.test"},
		Auth:   config.AuthConfig{DevHeaders: true},
		Import: config.ImportConfig{MaxBytes: 1 << 20},
	}
}

func newServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	h, err := router.NewRouter(router.Options{Config: cfg})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_AdoptionFlow(t *testing.T) {
	ts := newServer(t, testConfig())

	// 1) Sin credenciales no se puede dar de alta
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/perritos", "", map[string]any{"nombre": "Max"})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 create dog anonymous, got %d", st)
		}
	}

	// 2) Admin crea perrito
	dogID := createID(t, ts.URL, "/api/admin/perritos", map[string]any{
		"nombre": "Max",
		"edad":   "2 años",
		"sexo":   "macho",
		"tamano": "mediano",
	})

	// 3) Aparece en el catálogo público
	{
		st, body := doReq(t, ts.URL, "GET", "/api/perritos", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list dogs, got %d body=%s", st, string(body))
		}
		var resp struct {
			Items []map[string]any `json:"items"`
			Total int              `json:"total"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Total != 1 || resp.Items[0]["nombre"] != "Max" {
			t.Fatalf("unexpected catalog body=%s", string(body))
		}
	}

	// 4) Dos interesados envían solicitud
	winner := submitRequest(t, ts.URL, dogID, "Ana")
	other := submitRequest(t, ts.URL, dogID, "Beto")

	// 5) Operador no entra al back office
	{
		st, _ := doReqRole(t, ts.URL, "GET", "/api/admin/solicitudes", "operador", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for operador, got %d", st)
		}
	}

	// 6) Admin ve las pendientes
	{
		st, body := doReq(t, ts.URL, "GET", "/api/admin/solicitudes?estado=pendiente&perrito_id="+dogID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list requests, got %d body=%s", st, string(body))
		}
		var resp struct {
			Total int `json:"total"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Total != 2 {
			t.Fatalf("expected 2 pending requests, body=%s", string(body))
		}
	}

	// 7) pendiente no puede saltar a completada
	{
		st, _ := transition(t, ts.URL, winner, "completada")
		if st != http.StatusConflict {
			t.Fatalf("expected 409 invalid transition, got %d", st)
		}
	}

	// 8) en_revision -> aprobada deja al perrito en proceso
	for _, next := range []string{"en_revision", "aprobada"} {
		if st, body := transition(t, ts.URL, winner, next); st != http.StatusOK {
			t.Fatalf("expected 200 transition to %s, got %d body=%s", next, st, string(body))
		}
	}
	if got := dogStatus(t, ts.URL, dogID); got != "en_proceso" {
		t.Fatalf("expected dog en_proceso, got %s", got)
	}

	// 9) completada: perrito adoptado y la otra solicitud rechazada
	if st, body := transition(t, ts.URL, winner, "completada"); st != http.StatusOK {
		t.Fatalf("expected 200 complete, got %d body=%s", st, string(body))
	}
	if got := dogStatus(t, ts.URL, dogID); got != "adoptado" {
		t.Fatalf("expected dog adoptado, got %s", got)
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/api/admin/solicitudes/"+other, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get request, got %d", st)
		}
		var resp map[string]any
		_ = json.Unmarshal(body, &resp)
		if resp["estado"] != "rechazada" {
			t.Fatalf("expected other request rechazada, body=%s", string(body))
		}
	}

	// 10) Ya no acepta solicitudes nuevas
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/solicitudes", "", requestPayload(dogID, "Carla"))
		if st != http.StatusConflict {
			t.Fatalf("expected 409 request for adopted dog, got %d", st)
		}
	}
}

func TestHTTP_ImportCSV(t *testing.T) {
	ts := newServer(t, testConfig())

	// plantilla
	{
		st, body := doRaw(t, ts.URL, "GET", "/api/admin/import/perritos/plantilla", "", nil)
		if st != http.StatusOK || !strings.HasPrefix(string(body), "nombre,edad,sexo,tamano") {
			t.Fatalf("unexpected template %d body=%s", st, string(body))
		}
	}

	csv := []byte("nombre,edad,sexo\nMax,2 años,macho\n")

	// preview
	{
		st, body := doRaw(t, ts.URL, "POST", "/api/admin/import/perritos/preview", "text/csv", csv)
		if st != http.StatusOK {
			t.Fatalf("expected 200 preview, got %d body=%s", st, string(body))
		}
		var resp struct {
			Total   int        `json:"total"`
			Rows    [][]string `json:"filas"`
			Missing []string   `json:"faltantes"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Total != 1 || len(resp.Rows) != 1 || len(resp.Missing) != 0 {
			t.Fatalf("unexpected preview body=%s", string(body))
		}
	}

	// import
	{
		st, body := doRaw(t, ts.URL, "POST", "/api/admin/import/perritos", "text/csv", csv)
		if st != http.StatusOK {
			t.Fatalf("expected 200 import, got %d body=%s", st, string(body))
		}
		var resp struct {
			Imported int   `json:"importados"`
			Errors   []any `json:"errores"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Imported != 1 || len(resp.Errors) != 0 {
			t.Fatalf("unexpected import body=%s", string(body))
		}
	}

	// el perrito quedó con los valores de la fila
	{
		st, body := doReq(t, ts.URL, "GET", "/api/admin/perritos?q=max", "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d", st)
		}
		var resp struct {
			Items []map[string]any `json:"items"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Items) != 1 || resp.Items[0]["edad"] != "2 años" || resp.Items[0]["sexo"] != "macho" {
			t.Fatalf("unexpected imported dog body=%s", string(body))
		}
	}

	// JSON ya mapeado, con una fila inválida
	{
		st, body := doReq(t, ts.URL, "POST", "/api/admin/import/comercios", "admin", map[string]any{
			"registros": []map[string]any{
				{"nombre": "Veterinaria Sur", "direccion": "Av. 1 123", "categoria": "Veterinaria"},
				{"nombre": "Sin dirección"},
			},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 json import, got %d body=%s", st, string(body))
		}
		var resp struct {
			Imported int `json:"importados"`
			Errors   []struct {
				Row int `json:"fila"`
			} `json:"errores"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Imported != 1 || len(resp.Errors) != 1 || resp.Errors[0].Row != 2 {
			t.Fatalf("unexpected json import body=%s", string(body))
		}
	}

	// entidad desconocida
	{
		st, _ := doRaw(t, ts.URL, "POST", "/api/admin/import/gatitos", "text/csv", csv)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown entity, got %d", st)
		}
	}
}

func TestHTTP_BusinessQR(t *testing.T) {
	ts := newServer(t, testConfig())

	st, body := doReq(t, ts.URL, "POST", "/api/admin/comercios", "admin", map[string]any{
		"nombre":    "Café Patitas",
		"categoria": "cafeteria",
		"direccion": "San Martín 450",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create business, got %d body=%s", st, string(body))
	}
	var b struct {
		Code string `json:"codigo"`
	}
	_ = json.Unmarshal(body, &b)
	if !strings.HasPrefix(b.Code, "PF-") {
		t.Fatalf("unexpected code body=%s", string(body))
	}

	{
		res := get(t, ts.URL+"/api/comercios/"+b.Code+"/qr")
		if res.StatusCode != http.StatusOK || res.Header.Get("Content-Type") != "image/png" {
			t.Fatalf("expected png, got %d %s", res.StatusCode, res.Header.Get("Content-Type"))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/api/comercios/"+b.Code+"/qr?formato=datauri", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 datauri, got %d body=%s", st, string(body))
		}
		var resp struct {
			URL     string `json:"url"`
			DataURI string `json:"data_uri"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.URL != "http://adopta.test/comercios/"+b.Code || !strings.HasPrefix(resp.DataURI, "data:image/png;base64,") {
			t.Fatalf("unexpected qr body=%s", string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/comercios/"+b.Code+"/qr?color=zzz", "", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 bad color, got %d", st)
		}
	}
	{
		res := get(t, ts.URL+"/comercios/"+b.Code)
		if res.StatusCode != http.StatusOK || !strings.HasPrefix(res.Header.Get("Content-Type"), "text/html") {
			t.Fatalf("expected landing page, got %d", res.StatusCode)
		}
	}
}

func TestHTTP_MedicalAndVaccinations(t *testing.T) {
	ts := newServer(t, testConfig())
	dogID := createID(t, ts.URL, "/api/admin/perritos", map[string]any{"nombre": "Luna"})

	createID(t, ts.URL, "/api/admin/perritos/"+dogID+"/expediente", map[string]any{
		"tipo":   "consulta",
		"titulo": "Control de ingreso",
	})

	due := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	vacID := createID(t, ts.URL, "/api/admin/perritos/"+dogID+"/vacunas", map[string]any{
		"vacuna":           "Antirrábica",
		"fecha_programada": due,
	})

	{
		st, body := doReq(t, ts.URL, "GET", "/api/admin/vacunas/proximas?dias=7", "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 upcoming, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0]["perrito_nombre"] != "Luna" {
			t.Fatalf("unexpected upcoming body=%s", string(body))
		}
	}

	if st, body := doReq(t, ts.URL, "POST", "/api/admin/vacunas/"+vacID+"/aplicar", "admin", nil); st != http.StatusOK {
		t.Fatalf("expected 200 apply, got %d body=%s", st, string(body))
	}
	if st, _ := doReq(t, ts.URL, "POST", "/api/admin/vacunas/"+vacID+"/aplicar", "admin", nil); st != http.StatusConflict {
		t.Fatalf("expected 409 apply twice, got %d", st)
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/api/admin/perritos/"+dogID+"/expediente?tipos=vacuna", "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 records, got %d", st)
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0]["titulo"] != "Vacuna: Antirrábica" {
			t.Fatalf("unexpected records body=%s", string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/api/admin/perritos/"+dogID, "admin", nil)
		var d map[string]any
		_ = json.Unmarshal(body, &d)
		if st != http.StatusOK || d["vacunado"] != true {
			t.Fatalf("expected dog vacunado, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_EventsAndReminders(t *testing.T) {
	ts := newServer(t, testConfig())

	start := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	createID(t, ts.URL, "/api/admin/eventos", map[string]any{"titulo": "Jornada de adopción", "tipo": "jornada_adopcion", "inicio": start, "publicado": true})
	draft := createID(t, ts.URL, "/api/admin/eventos", map[string]any{"titulo": "Borrador", "inicio": start})

	{
		st, body := doReq(t, ts.URL, "GET", "/api/eventos", "", nil)
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if st != http.StatusOK || len(items) != 1 {
			t.Fatalf("expected 1 public event, got %d body=%s", st, string(body))
		}
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/eventos/"+draft, "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 draft event, got %d", st)
	}

	{
		st, body := doReq(t, ts.URL, "POST", "/api/admin/recordatorios", "admin", map[string]any{"enviar": true})
		if st != http.StatusOK {
			t.Fatalf("expected 200 reminders, got %d body=%s", st, string(body))
		}
		var rep struct {
			Total int `json:"total"`
		}
		_ = json.Unmarshal(body, &rep)
		if rep.Total != 0 {
			t.Fatalf("expected no overdue requests, body=%s", string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/api/admin/recordatorios/reglas", "admin", nil)
		var rules []map[string]any
		_ = json.Unmarshal(body, &rules)
		if st != http.StatusOK || len(rules) != 4 {
			t.Fatalf("expected 4 default rules, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_RateLimitedForm(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimiter = config.RateLimiterConfig{Enabled: true, RPS: 0.001, Burst: 1}
	ts := newServer(t, cfg)

	// el primer envío consume el burst aunque el perrito no exista
	if st, _ := doReq(t, ts.URL, "POST", "/api/solicitudes", "", requestPayload("nope", "Ana")); st != http.StatusNotFound {
		t.Fatalf("expected 404 unknown dog, got %d", st)
	}

	req, _ := http.NewRequest("POST", ts.URL+"/api/solicitudes", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusTooManyRequests || res.Header.Get("Retry-After") == "" {
		t.Fatalf("expected 429 with Retry-After, got %d", res.StatusCode)
	}
}

func TestHTTP_RateLimit_ForwardedForRotation(t *testing.T) {
	post := func(ts *httptest.Server, xff string) int {
		req, _ := http.NewRequest("POST", ts.URL+"/api/solicitudes", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", xff)
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		_ = res.Body.Close()
		return res.StatusCode
	}

	cfg := testConfig()
	cfg.RateLimiter = config.RateLimiterConfig{Enabled: true, RPS: 0.001, Burst: 1}
	ts := newServer(t, cfg)

	// sin trust_proxy el header no cambia la IP del visitante
	if st := post(ts, "10.0.0.1"); st != http.StatusBadRequest {
		t.Fatalf("expected 400 first request, got %d", st)
	}
	for _, ip := range []string{"10.0.0.2", "10.0.0.3", "10.0.0.4"} {
		if st := post(ts, ip); st != http.StatusTooManyRequests {
			t.Fatalf("expected 429 with X-Forwarded-For %s, got %d", ip, st)
		}
	}

	// detrás de un proxy propio cada IP reenviada es un visitante
	cfg = testConfig()
	cfg.RateLimiter = config.RateLimiterConfig{Enabled: true, RPS: 0.001, Burst: 1}
	cfg.Server.TrustProxy = true
	proxied := newServer(t, cfg)
	for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
		if st := post(proxied, ip); st != http.StatusBadRequest {
			t.Fatalf("expected 400 behind proxy for %s, got %d", ip, st)
		}
	}
}

func TestHTTP_DevHeadersIgnoredWithTokens(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = "staging"
	cfg.Auth.Tokens = []config.TokenConfig{{Token: "s3cret", UserID: "u1", Role: "admin"}}
	ts := newServer(t, cfg)

	get := func(headers map[string]string) int {
		req, _ := http.NewRequest("GET", ts.URL+"/api/admin/solicitudes", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		_ = res.Body.Close()
		return res.StatusCode
	}

	if st := get(map[string]string{"X-Debug-User-ID": "intruder"}); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 debug header with tokens configured, got %d", st)
	}
	if st := get(map[string]string{"X-Debug-User-ID": "intruder", "X-Debug-Role": "admin", "Authorization": "Bearer nope"}); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 bad token plus debug header, got %d", st)
	}
	if st := get(map[string]string{"Authorization": "Bearer s3cret"}); st != http.StatusOK {
		t.Fatalf("expected 200 with static token, got %d", st)
	}
}

func TestHTTP_Operational(t *testing.T) {
	ts := newServer(t, testConfig())

	for _, path := range []string{"/health", "/metrics", "/swagger/doc.json", "/"} {
		res := get(t, ts.URL+path)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 %s, got %d", path, res.StatusCode)
		}
	}

	st, body := doReq(t, ts.URL, "GET", "/api/no-existe", "", nil)
	if st != http.StatusNotFound || !strings.Contains(string(body), "not_found") {
		t.Fatalf("expected json 404, got %d body=%s", st, string(body))
	}
}

func requestPayload(dogID, name string) map[string]any {
	return map[string]any{
		"perrito_id": dogID,
		"nombre":     name,
		"email":      strings.ToLower(name) + "@example.com",
		"telefono":   "11 5555-0000",
		"vivienda":   "casa",
	}
}

func submitRequest(t *testing.T, baseURL, dogID, name string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/solicitudes", "", requestPayload(dogID, name))
	if st != http.StatusCreated {
		t.Fatalf("expected 201 submit request, got %d body=%s", st, string(body))
	}
	var resp struct {
		ID     string `json:"id"`
		Status string `json:"estado"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" || resp.Status != "pendiente" {
		t.Fatalf("submit request: unexpected body=%s", string(body))
	}
	return resp.ID
}

func transition(t *testing.T, baseURL, id, status string) (int, []byte) {
	t.Helper()
	return doReq(t, baseURL, "POST", "/api/admin/solicitudes/"+id+"/estado", "admin", map[string]any{
		"estado": status,
		"notas":  "paso a " + status,
	})
}

func dogStatus(t *testing.T, baseURL, id string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/api/perritos/"+id, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get dog, got %d body=%s", st, string(body))
	}
	var resp struct {
		Status string `json:"estado"`
	}
	_ = json.Unmarshal(body, &resp)
	return resp.Status
}

func createID(t *testing.T, baseURL, path string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, "admin", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, string(body))
	}
	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id body=%s", path, string(body))
	}
	return resp.ID
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()

	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
	return res
}

// doReq manda JSON; role vacío = anónimo.
func doReq(t *testing.T, baseURL, method, path, role string, body any) (int, []byte) {
	t.Helper()
	return doReqRole(t, baseURL, method, path, role, body)
}

func doReqRole(t *testing.T, baseURL, method, path, role string, body any) (int, []byte) {
	t.Helper()

	var raw []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		raw = b
	}
	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	return send(t, baseURL, method, path, role, contentType, raw)
}

// doRaw manda el cuerpo tal cual como admin.
func doRaw(t *testing.T, baseURL, method, path, contentType string, body []byte) (int, []byte) {
	t.Helper()
	return send(t, baseURL, method, path, "admin", contentType, body)
}

func send(t *testing.T, baseURL, method, path, role, contentType string, body []byte) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if role != "" {
		req.Header.Set("X-Debug-User-ID", role+"-1")
		req.Header.Set("X-Debug-Role", role)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
