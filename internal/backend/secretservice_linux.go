//go:build linux

package backend

import (
	stderrors "errors"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/zx06/xsecret/internal/securebuf"
)

const (
	secretServiceName = "secret-service"

	ssDest            = "org.freedesktop.secrets"
	ssPath            = dbus.ObjectPath("/org/freedesktop/secrets")
	ssServiceIface    = "org.freedesktop.Secret.Service"
	ssCollectionIface = "org.freedesktop.Secret.Collection"
	ssItemIface       = "org.freedesktop.Secret.Item"
	ssPromptIface     = "org.freedesktop.Secret.Prompt"

	ssLoginCollection = dbus.ObjectPath("/org/freedesktop/secrets/collection/login")
	ssNoPrompt        = dbus.ObjectPath("/")

	// 与 go-keyring 使用相同的属性名，两边写入的条目可以互相读取。
	ssAttrService = "service"
	ssAttrUser    = "username"
)

var errPromptDismissed = stderrors.New("secret service prompt dismissed")

func init() {
	Register(secretServiceName, func(opts Options) (Backend, error) { return OpenSecretService(opts.Collection) })
}

// ssSecret 对应 D-Bus 结构体 (oayays)。
type ssSecret struct {
	Session     dbus.ObjectPath
	Parameters  []byte
	Value       []byte
	ContentType string
}

// ssConn 是 SecretService 用到的 *dbus.Conn 方法子集。
type ssConn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	AddMatchSignal(options ...dbus.MatchOption) error
	RemoveMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
}

// SecretService 直接通过 D-Bus 使用 freedesktop Secret Service
// （GNOME Keyring、KeePassXC 等）。
type SecretService struct {
	conn  ssConn
	alias string

	mu      sync.Mutex
	session dbus.ObjectPath
}

// OpenSecretService 连接 session bus 并打开一个 plain 会话；
// 没有 secret service 守护进程时返回 XSECRET_BACKEND_UNAVAILABLE。
func OpenSecretService(alias string) (*SecretService, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, unavailable(secretServiceName, err)
	}
	return newSecretService(conn, alias)
}

func newSecretService(conn ssConn, alias string) (*SecretService, error) {
	if alias == "" {
		alias = "default"
	}
	s := &SecretService{conn: conn, alias: alias}
	if _, err := s.openSession(); err != nil {
		return nil, unavailable(secretServiceName, err)
	}
	return s, nil
}

func (s *SecretService) Name() string { return secretServiceName }

func (s *SecretService) service() dbus.BusObject {
	return s.conn.Object(ssDest, ssPath)
}

func (s *SecretService) openSession() (dbus.ObjectPath, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != "" {
		return s.session, nil
	}
	var output dbus.Variant
	var path dbus.ObjectPath
	err := s.service().Call(ssServiceIface+".OpenSession", 0, "plain", dbus.MakeVariant("")).Store(&output, &path)
	if err != nil {
		return "", err
	}
	s.session = path
	return path, nil
}

func attributes(service, user string) map[string]string {
	return map[string]string{ssAttrService: service, ssAttrUser: user}
}

// collection 解析别名，未设置 default 别名时回退到 login 集合。
func (s *SecretService) collection() (dbus.ObjectPath, error) {
	var path dbus.ObjectPath
	if err := s.service().Call(ssServiceIface+".ReadAlias", 0, s.alias).Store(&path); err != nil {
		return "", err
	}
	if path == ssNoPrompt {
		if s.alias != "default" {
			return "", stderrors.New("secret service collection alias not found: " + s.alias)
		}
		path = ssLoginCollection
	}
	if err := s.unlock([]dbus.ObjectPath{path}); err != nil {
		return "", err
	}
	return path, nil
}

// search 返回所有匹配项（包括解锁后的条目）。
func (s *SecretService) search(service, user string) ([]dbus.ObjectPath, error) {
	var unlocked, locked []dbus.ObjectPath
	err := s.service().Call(ssServiceIface+".SearchItems", 0, attributes(service, user)).Store(&unlocked, &locked)
	if err != nil {
		return nil, err
	}
	if len(locked) > 0 {
		if err := s.unlock(locked); err != nil {
			return nil, err
		}
	}
	return append(unlocked, locked...), nil
}

func (s *SecretService) unlock(paths []dbus.ObjectPath) error {
	var unlocked []dbus.ObjectPath
	var prompt dbus.ObjectPath
	if err := s.service().Call(ssServiceIface+".Unlock", 0, paths).Store(&unlocked, &prompt); err != nil {
		return err
	}
	return s.prompt(prompt)
}

// prompt 触发并等待用户交互完成；没有超时，沿用守护进程自身的行为。
func (s *SecretService) prompt(path dbus.ObjectPath) error {
	if path == "" || path == ssNoPrompt {
		return nil
	}
	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(ssPromptIface),
		dbus.WithMatchMember("Completed"),
	}
	if err := s.conn.AddMatchSignal(match...); err != nil {
		return err
	}
	defer func() { _ = s.conn.RemoveMatchSignal(match...) }()

	signals := make(chan *dbus.Signal, 4)
	s.conn.Signal(signals)
	defer s.conn.RemoveSignal(signals)

	if err := s.conn.Object(ssDest, path).Call(ssPromptIface+".Prompt", 0, "").Err; err != nil {
		return err
	}
	for sig := range signals {
		if sig.Path != path || sig.Name != ssPromptIface+".Completed" {
			continue
		}
		if len(sig.Body) > 0 {
			if dismissed, ok := sig.Body[0].(bool); ok && dismissed {
				return errPromptDismissed
			}
		}
		return nil
	}
	return stderrors.New("secret service connection closed while waiting for prompt")
}

func (s *SecretService) Write(service, user string, secret []byte) error {
	session, err := s.openSession()
	if err != nil {
		return failed(secretServiceName, "write", service, user, err)
	}
	collection, err := s.collection()
	if err != nil {
		return failed(secretServiceName, "write", service, user, err)
	}
	props := map[string]dbus.Variant{
		ssItemIface + ".Label":      dbus.MakeVariant("Password for '" + user + "' on '" + service + "'"),
		ssItemIface + ".Attributes": dbus.MakeVariant(attributes(service, user)),
	}
	payload := ssSecret{
		Session:     session,
		Parameters:  []byte{},
		Value:       secret,
		ContentType: "application/octet-stream",
	}
	var item, prompt dbus.ObjectPath
	err = s.conn.Object(ssDest, collection).
		Call(ssCollectionIface+".CreateItem", 0, props, payload, true).
		Store(&item, &prompt)
	if err != nil {
		return failed(secretServiceName, "write", service, user, err)
	}
	if err := s.prompt(prompt); err != nil {
		return failed(secretServiceName, "write", service, user, err)
	}
	return nil
}

func (s *SecretService) Read(service, user string) ([]byte, bool, error) {
	items, err := s.search(service, user)
	if err != nil {
		return nil, false, failed(secretServiceName, "read", service, user, err)
	}
	if len(items) == 0 {
		return nil, false, nil
	}
	session, err := s.openSession()
	if err != nil {
		return nil, false, failed(secretServiceName, "read", service, user, err)
	}
	// 多个匹配时取第一个，顺序由守护进程决定。
	var payload ssSecret
	if err := s.conn.Object(ssDest, items[0]).Call(ssItemIface+".GetSecret", 0, session).Store(&payload); err != nil {
		return nil, false, failed(secretServiceName, "read", service, user, err)
	}
	securebuf.Zero(payload.Parameters)
	if payload.Value == nil {
		payload.Value = []byte{}
	}
	return payload.Value, true, nil
}

func (s *SecretService) Erase(service, user string) (int, error) {
	items, err := s.search(service, user)
	if err != nil {
		return 0, failed(secretServiceName, "erase", service, user, err)
	}
	deleted := 0
	for _, item := range items {
		var prompt dbus.ObjectPath
		if err := s.conn.Object(ssDest, item).Call(ssItemIface+".Delete", 0).Store(&prompt); err != nil {
			return deleted, failed(secretServiceName, "erase", service, user, err)
		}
		if err := s.prompt(prompt); err != nil {
			return deleted, failed(secretServiceName, "erase", service, user, err)
		}
		deleted++
	}
	return deleted, nil
}
