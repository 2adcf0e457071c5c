//go:build linux

package backend

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/zx06/xsecret/internal/errors"
)

const (
	fakeDefaultCollection = dbus.ObjectPath("/org/freedesktop/secrets/collection/default")
	fakePrompt            = dbus.ObjectPath("/org/freedesktop/secrets/prompt/p1")
)

type fakeItem struct {
	path       dbus.ObjectPath
	collection dbus.ObjectPath
	attrs      map[string]string
	value      []byte
	locked     bool
}

// fakeSecretService 在进程内模拟 org.freedesktop.secrets 的一小部分接口。
type fakeSecretService struct {
	mu       sync.Mutex
	aliases  map[string]dbus.ObjectPath
	items    []*fakeItem
	nextID   int
	fail     map[string]error
	dismiss  bool
	pending  []dbus.ObjectPath
	signals  []chan<- *dbus.Signal
	prompted int
}

func newFakeSecretService() *fakeSecretService {
	return &fakeSecretService{
		aliases: map[string]dbus.ObjectPath{"default": fakeDefaultCollection},
		fail:    map[string]error{},
	}
}

func (f *fakeSecretService) add(collection dbus.ObjectPath, service, user string, value []byte, locked bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.items = append(f.items, &fakeItem{
		path:       dbus.ObjectPath(fmt.Sprintf("%s/%d", collection, f.nextID)),
		collection: collection,
		attrs:      attributes(service, user),
		value:      append([]byte{}, value...),
		locked:     locked,
	})
}

func (f *fakeSecretService) matching(attrs map[string]string) []*fakeItem {
	var out []*fakeItem
	for _, it := range f.items {
		if it.attrs[ssAttrService] == attrs[ssAttrService] && it.attrs[ssAttrUser] == attrs[ssAttrUser] {
			out = append(out, it)
		}
	}
	return out
}

func (f *fakeSecretService) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return &fakeObject{svc: f, dest: dest, path: path}
}

func (f *fakeSecretService) AddMatchSignal(...dbus.MatchOption) error    { return nil }
func (f *fakeSecretService) RemoveMatchSignal(...dbus.MatchOption) error { return nil }

func (f *fakeSecretService) Signal(ch chan<- *dbus.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals = append(f.signals, ch)
}

func (f *fakeSecretService) RemoveSignal(ch chan<- *dbus.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.signals {
		if c == ch {
			f.signals = append(f.signals[:i], f.signals[i+1:]...)
			return
		}
	}
}

func (f *fakeSecretService) call(path dbus.ObjectPath, method string, args []any) *dbus.Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := method[strings.LastIndex(method, ".")+1:]
	if err := f.fail[name]; err != nil {
		return &dbus.Call{Err: err}
	}
	reply := func(body ...any) *dbus.Call { return &dbus.Call{Body: body} }

	switch method {
	case ssServiceIface + ".OpenSession":
		return reply(dbus.MakeVariant(""), dbus.ObjectPath("/org/freedesktop/secrets/session/1"))
	case ssServiceIface + ".ReadAlias":
		if p, ok := f.aliases[args[0].(string)]; ok {
			return reply(p)
		}
		return reply(ssNoPrompt)
	case ssServiceIface + ".Unlock":
		var locked []dbus.ObjectPath
		for _, p := range args[0].([]dbus.ObjectPath) {
			for _, it := range f.items {
				if it.path == p && it.locked {
					locked = append(locked, p)
				}
			}
		}
		if len(locked) == 0 {
			return reply(args[0].([]dbus.ObjectPath), ssNoPrompt)
		}
		f.pending = locked
		return reply([]dbus.ObjectPath{}, fakePrompt)
	case ssServiceIface + ".SearchItems":
		unlocked, locked := []dbus.ObjectPath{}, []dbus.ObjectPath{}
		for _, it := range f.matching(args[0].(map[string]string)) {
			if it.locked {
				locked = append(locked, it.path)
			} else {
				unlocked = append(unlocked, it.path)
			}
		}
		return reply(unlocked, locked)
	case ssCollectionIface + ".CreateItem":
		props := args[0].(map[string]dbus.Variant)
		attrs := props[ssItemIface+".Attributes"].Value().(map[string]string)
		secret := args[1].(ssSecret)
		for _, it := range f.matching(attrs) {
			if it.collection == path && args[2].(bool) {
				it.value = append([]byte{}, secret.Value...)
				return reply(it.path, ssNoPrompt)
			}
		}
		f.nextID++
		it := &fakeItem{
			path:       dbus.ObjectPath(fmt.Sprintf("%s/%d", path, f.nextID)),
			collection: path,
			attrs:      attrs,
			value:      append([]byte{}, secret.Value...),
		}
		f.items = append(f.items, it)
		return reply(it.path, ssNoPrompt)
	case ssItemIface + ".GetSecret":
		for _, it := range f.items {
			if it.path == path {
				if it.locked {
					return &dbus.Call{Err: stderrors.New("item is locked")}
				}
				return reply(ssSecret{Session: args[0].(dbus.ObjectPath), Parameters: []byte{}, Value: append([]byte{}, it.value...)})
			}
		}
		return &dbus.Call{Err: stderrors.New("no such object")}
	case ssItemIface + ".Delete":
		for i, it := range f.items {
			if it.path == path {
				f.items = append(f.items[:i], f.items[i+1:]...)
				return reply(ssNoPrompt)
			}
		}
		return &dbus.Call{Err: stderrors.New("no such object")}
	case ssPromptIface + ".Prompt":
		f.prompted++
		if !f.dismiss {
			for _, p := range f.pending {
				for _, it := range f.items {
					if it.path == p {
						it.locked = false
					}
				}
			}
		}
		f.pending = nil
		sig := &dbus.Signal{Path: path, Name: ssPromptIface + ".Completed", Body: []any{f.dismiss, dbus.MakeVariant("")}}
		for _, ch := range f.signals {
			ch <- sig
		}
		return reply()
	}
	return &dbus.Call{Err: stderrors.New("unsupported method " + method)}
}

type fakeObject struct {
	svc  *fakeSecretService
	dest string
	path dbus.ObjectPath
}

func (o *fakeObject) Call(method string, _ dbus.Flags, args ...any) *dbus.Call {
	return o.svc.call(o.path, method, args)
}

func (o *fakeObject) CallWithContext(_ context.Context, method string, flags dbus.Flags, args ...any) *dbus.Call {
	return o.Call(method, flags, args...)
}

func (o *fakeObject) Go(method string, flags dbus.Flags, _ chan *dbus.Call, args ...any) *dbus.Call {
	return o.Call(method, flags, args...)
}

func (o *fakeObject) GoWithContext(_ context.Context, method string, flags dbus.Flags, _ chan *dbus.Call, args ...any) *dbus.Call {
	return o.Call(method, flags, args...)
}

func (o *fakeObject) AddMatchSignal(string, string, ...dbus.MatchOption) *dbus.Call {
	return &dbus.Call{}
}

func (o *fakeObject) RemoveMatchSignal(string, string, ...dbus.MatchOption) *dbus.Call {
	return &dbus.Call{}
}

func (o *fakeObject) GetProperty(string) (dbus.Variant, error) {
	return dbus.Variant{}, stderrors.New("unsupported")
}

func (o *fakeObject) StoreProperty(string, any) error { return stderrors.New("unsupported") }
func (o *fakeObject) SetProperty(string, any) error   { return stderrors.New("unsupported") }
func (o *fakeObject) Destination() string             { return o.dest }
func (o *fakeObject) Path() dbus.ObjectPath           { return o.path }

func newTestSecretService(t *testing.T, f *fakeSecretService, alias string) *SecretService {
	t.Helper()
	s, err := newSecretService(f, alias)
	if err != nil {
		t.Fatalf("newSecretService failed: %v", err)
	}
	return s
}

func TestSecretService_WriteReadErase(t *testing.T) {
	s := newTestSecretService(t, newFakeSecretService(), "")

	if _, found, err := s.Read("Acme/Sync", "alice"); found || err != nil {
		t.Fatalf("Read before Write = found=%v err=%v; want not found", found, err)
	}
	if err := s.Write("Acme/Sync", "alice", []byte("pass")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Write("Acme/Sync", "alice", []byte("pass2")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, found, err := s.Read("Acme/Sync", "alice")
	if err != nil || !found || string(data) != "pass2" {
		t.Fatalf("Read = %q, %v, %v; want pass2", data, found, err)
	}

	n, err := s.Erase("Acme/Sync", "alice")
	if err != nil || n != 1 {
		t.Fatalf("Erase = %d, %v; want 1, nil", n, err)
	}
	if n, err := s.Erase("Acme/Sync", "alice"); n != 0 || err != nil {
		t.Fatalf("Erase on absent entry = %d, %v; want 0, nil", n, err)
	}
}

func TestSecretService_EmptyAndBinarySecrets(t *testing.T) {
	s := newTestSecretService(t, newFakeSecretService(), "")

	tests := []struct {
		user string
		raw  []byte
	}{
		{"empty", []byte{}},
		{"nul", []byte{0x00, 'p', 0x00, 0xff}},
	}
	for _, tt := range tests {
		if err := s.Write("svc", tt.user, tt.raw); err != nil {
			t.Fatalf("Write(%s) failed: %v", tt.user, err)
		}
		data, found, err := s.Read("svc", tt.user)
		if err != nil || !found || string(data) != string(tt.raw) {
			t.Errorf("Read(%s) = %v, %v, %v; want %v", tt.user, data, found, err, tt.raw)
		}
		if data == nil {
			t.Errorf("Read(%s) must return a non-nil slice for a found secret", tt.user)
		}
	}
}

func TestSecretService_DuplicatesReadFirstEraseAll(t *testing.T) {
	f := newFakeSecretService()
	f.add(fakeDefaultCollection, "Acme/Sync", "alice", []byte("first"), false)
	f.add(ssLoginCollection, "Acme/Sync", "alice", []byte("second"), false)
	f.add(fakeDefaultCollection, "Acme/Sync", "bob", []byte("other"), false)
	s := newTestSecretService(t, f, "")

	data, found, err := s.Read("Acme/Sync", "alice")
	if err != nil || !found || string(data) != "first" {
		t.Fatalf("Read = %q, %v, %v; want first match", data, found, err)
	}

	n, err := s.Erase("Acme/Sync", "alice")
	if err != nil || n != 2 {
		t.Fatalf("Erase = %d, %v; want 2, nil", n, err)
	}
	if _, found, _ := s.Read("Acme/Sync", "alice"); found {
		t.Error("expected every duplicate to be erased")
	}
	if _, found, _ := s.Read("Acme/Sync", "bob"); !found {
		t.Error("Erase must not touch other users")
	}
}

func TestSecretService_LockedItemsAreUnlockedThroughPrompt(t *testing.T) {
	f := newFakeSecretService()
	f.add(fakeDefaultCollection, "svc", "u", []byte("locked-pass"), true)
	s := newTestSecretService(t, f, "")

	data, found, err := s.Read("svc", "u")
	if err != nil || !found || string(data) != "locked-pass" {
		t.Fatalf("Read = %q, %v, %v", data, found, err)
	}
	if f.prompted != 1 {
		t.Errorf("expected one prompt, got %d", f.prompted)
	}
}

func TestSecretService_DismissedPromptIsFailure(t *testing.T) {
	f := newFakeSecretService()
	f.add(fakeDefaultCollection, "svc", "u", []byte("locked-pass"), true)
	f.dismiss = true
	s := newTestSecretService(t, f, "")

	_, found, err := s.Read("svc", "u")
	if found || !errors.HasCode(err, errors.CodeBackendFailed) {
		t.Fatalf("Read = found=%v err=%v; want XSECRET_BACKEND_FAILED", found, err)
	}
	xe, _ := errors.As(err)
	if reason, _ := xe.Details["reason"].(string); !strings.Contains(reason, "dismissed") {
		t.Errorf("reason = %q, want prompt dismissal", reason)
	}
	if n, err := s.Erase("svc", "u"); n != 0 || !errors.HasCode(err, errors.CodeBackendFailed) {
		t.Errorf("Erase = %d, %v; want 0 and XSECRET_BACKEND_FAILED", n, err)
	}
}

func TestSecretService_LoginCollectionFallback(t *testing.T) {
	f := newFakeSecretService()
	delete(f.aliases, "default")
	s := newTestSecretService(t, f, "")

	if err := s.Write("svc", "u", []byte("v")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(f.items) != 1 || f.items[0].collection != ssLoginCollection {
		t.Fatalf("expected the item in the login collection, got %+v", f.items)
	}
}

func TestSecretService_UnknownAliasIsFailure(t *testing.T) {
	s := newTestSecretService(t, newFakeSecretService(), "work")

	err := s.Write("svc", "u", []byte("v"))
	if !errors.HasCode(err, errors.CodeBackendFailed) {
		t.Fatalf("Write = %v; want XSECRET_BACKEND_FAILED", err)
	}
}

func TestSecretService_DBusErrorsAreTranslated(t *testing.T) {
	tests := []struct {
		method string
		run    func(*SecretService) error
	}{
		{"CreateItem", func(s *SecretService) error { return s.Write("svc", "u", []byte("v")) }},
		{"SearchItems", func(s *SecretService) error { _, _, err := s.Read("svc", "u"); return err }},
		{"GetSecret", func(s *SecretService) error { _, _, err := s.Read("svc", "u"); return err }},
		{"Delete", func(s *SecretService) error { _, err := s.Erase("svc", "u"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			f := newFakeSecretService()
			f.add(fakeDefaultCollection, "svc", "u", []byte("v"), false)
			s := newTestSecretService(t, f, "")
			f.fail[tt.method] = stderrors.New("org.freedesktop.DBus.Error.Failed")

			err := tt.run(s)
			xe, ok := errors.As(err)
			if !ok || xe.Code != errors.CodeBackendFailed {
				t.Fatalf("err = %v; want XSECRET_BACKEND_FAILED", err)
			}
			if xe.Details["backend"] != secretServiceName {
				t.Errorf("details.backend = %v", xe.Details["backend"])
			}
		})
	}
}

func TestSecretService_OpenSessionFailureIsUnavailable(t *testing.T) {
	f := newFakeSecretService()
	f.fail["OpenSession"] = stderrors.New("org.freedesktop.DBus.Error.ServiceUnknown")

	_, err := newSecretService(f, "")
	if !errors.HasCode(err, errors.CodeBackendUnavailable) {
		t.Fatalf("err = %v; want XSECRET_BACKEND_UNAVAILABLE", err)
	}
}
