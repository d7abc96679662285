package session

import (
	"context"
	"net/url"
	"testing"

	"github.com/warpdl/warpsession/pkg/cookiestore"
)

// scenario runs one visit of a multi-visit browsing sequence. Each visit
// starts from the persisted state of the previous one.
type scenario struct {
	t     *testing.T
	rt    *router
	store *cookiestore.Store
	s     *Session
}

func newScenario(t *testing.T, from *memPersister) *scenario {
	t.Helper()
	rt := newRouter()
	st := cookiestore.New(nil)
	sc := &scenario{t: t, rt: rt, store: st, s: New(&handlerDoer{handler: rt}, WithStore(st))}
	if from != nil {
		if err := sc.s.Load(from); err != nil {
			t.Fatalf("load failed: %v", err)
		}
	}
	return sc
}

func (sc *scenario) parse(raw, setCookie string) {
	sc.t.Helper()
	u, _ := url.Parse(raw)
	if err := sc.store.SetCookieString(u, setCookie); err != nil {
		sc.t.Fatalf("SetCookieString(%q) failed: %v", setCookie, err)
	}
}

func (sc *scenario) visit(raw string, responds ...string) map[string]string {
	sc.t.Helper()
	u, _ := url.Parse(raw)
	path := u.Path
	if path == "" {
		path = "/"
	}
	sc.rt.handle(u.Host+path, setCookies(responds...))
	if _, err := sc.s.GetWith(context.Background(), raw, nil); err != nil {
		sc.t.Fatalf("GET %s failed: %v", raw, err)
	}
	return cookieNames(sc.rt.last(sc.t).Cookie)
}

func (sc *scenario) save() *memPersister {
	sc.t.Helper()
	p := &memPersister{}
	if err := sc.s.Save(p); err != nil {
		sc.t.Fatalf("save failed: %v", err)
	}
	return p
}

func (sc *scenario) session(domain, path, name string) {
	sc.t.Helper()
	c := sc.store.Get(domain, path, name)
	if c == nil || c.Persistent() {
		sc.t.Errorf("expected session cookie %s%s %s, got %+v", domain, path, name, c)
	}
}

func (sc *scenario) persistent(domain, path, name string) {
	sc.t.Helper()
	c := sc.store.Get(domain, path, name)
	if c == nil || !c.Persistent() {
		sc.t.Errorf("expected persistent cookie %s%s %s, got %+v", domain, path, name, c)
	}
}

func (sc *scenario) value(domain, path, name, want string) {
	sc.t.Helper()
	c := sc.store.Get(domain, path, name)
	if c == nil || c.Value != want {
		sc.t.Errorf("expected %s%s %s=%s, got %+v", domain, path, name, want, c)
	}
}

func (sc *scenario) absent(names ...string) {
	sc.t.Helper()
	for _, c := range sc.store.All() {
		for _, n := range names {
			if c.Name == n {
				sc.t.Errorf("expected no cookie named %q, found %s%s", n, c.Domain, c.Path)
			}
		}
	}
}

func sent(t *testing.T, incoming map[string]string, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, ok := incoming[n]; !ok {
			t.Errorf("expected cookie %q sent, got %v", n, incoming)
		}
	}
}

func notSent(t *testing.T, incoming map[string]string, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, ok := incoming[n]; ok {
			t.Errorf("expected cookie %q withheld, got %v", n, incoming)
		}
	}
}

func TestSession_MultiVisitPersistence(t *testing.T) {
	var saved *memPersister

	t.Run("http www", func(t *testing.T) {
		sc := newScenario(t, nil)
		sc.parse("http://www.example.com", "0=_")
		sc.parse("http://www.example.com", "1=a; Max-Age=120")
		sc.parse("http://www.example.com", "2=b; Max-Age=120")
		sc.parse("http://www.example.com", "secure=zz; Max-Age=120; Secure")
		sc.parse("http://foo.example.com", "foo_domain=zzz")
		sc.parse("http://foo.example.com", "foo_domain_pers=zzz; Max-Age=120")

		in := sc.visit("http://www.example.com",
			"0=hi",
			"1=sess1; Max-Age=120",
			"2=c; Max-Age=0",
			"3=c",
			"4=d; Max-Age=0",
			"5=e; Domain=invalid.com",
			"6=f; Domain=example.com",
			"7=g; Max-Age=300",
		)
		sent(t, in, "0", "1", "2")
		notSent(t, in, "3", "secure", "foo_domain", "foo_domain_pers")

		sc.session("www.example.com", "/", "0")
		sc.value("www.example.com", "/", "0", "hi")
		sc.persistent("www.example.com", "/", "1")
		sc.value("www.example.com", "/", "1", "sess1")
		sc.session("www.example.com", "/", "3")
		sc.absent("2", "4", "5")
		sc.session("example.com", "/", "6")
		sc.persistent("www.example.com", "/", "7")
		sc.persistent("www.example.com", "/", "secure")
		sc.session("foo.example.com", "/", "foo_domain")
		sc.persistent("foo.example.com", "/", "foo_domain_pers")
		saved = sc.save()
	})

	t.Run("https www", func(t *testing.T) {
		sc := newScenario(t, saved)
		sc.absent("0", "2", "3", "4", "5", "6", "foo_domain")
		sc.value("www.example.com", "/", "1", "sess1")
		sc.persistent("www.example.com", "/", "7")
		sc.persistent("www.example.com", "/", "secure")
		sc.persistent("foo.example.com", "/", "foo_domain_pers")

		in := sc.visit("https://www.example.com",
			"1=sess2; Max-Age=120",
			"secure=ZZ; Max-Age=120",
			"2=B; Max-Age=120; Path=/foo",
			"8=h; Domain=example.com",
		)
		sent(t, in, "1", "7", "secure")
		notSent(t, in, "0", "2", "3", "4", "5", "6", "foo_domain", "foo_domain_pers")

		sc.value("www.example.com", "/", "1", "sess2")
		sc.value("www.example.com", "/foo", "2", "B")
		sc.session("example.com", "/", "8")
		sc.value("www.example.com", "/", "secure", "ZZ")
		saved = sc.save()
	})

	t.Run("http foo subdomain", func(t *testing.T) {
		sc := newScenario(t, saved)
		sc.absent("8")
		in := sc.visit("http://foo.example.com",
			"1=sess3; Max-Age=120",
			"secure=YY; Max-Age=120; Secure",
			"9=v; Domain=example.com; Path=/foo; Max-Age=120; Secure",
		)
		sent(t, in, "foo_domain_pers")
		notSent(t, in, "0", "1", "2", "3", "4", "5", "6", "7", "8", "secure", "foo_domain")

		sc.value("www.example.com", "/", "1", "sess2")
		sc.value("foo.example.com", "/", "1", "sess3")
		sc.value("www.example.com", "/", "secure", "ZZ")
		sc.value("foo.example.com", "/", "secure", "YY")
		sc.persistent("example.com", "/foo", "9")
		saved = sc.save()
	})

	t.Run("https www path", func(t *testing.T) {
		sc := newScenario(t, saved)
		for _, p := range []string{"https://www.example.com/foo", "https://www.example.com/foo/bar"} {
			in := sc.visit(p)
			sent(t, in, "1", "2", "7", "9")
			notSent(t, in, "0", "3", "4", "5", "6", "8", "foo_domain", "foo_domain_pers")
			if in["secure"] != "ZZ" {
				t.Errorf("expected secure=ZZ on %s, got %v", p, in)
			}
			if in["1"] != "sess2" {
				t.Errorf("expected 1=sess2 on %s, got %v", p, in)
			}
		}
		for _, p := range []string{"https://www.example.com/", "https://www.example.com/bar"} {
			notSent(t, sc.visit(p), "9", "2")
		}
	})
}
