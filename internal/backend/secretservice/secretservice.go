// Package secretservice 实现基于 freedesktop Secret Service（D-Bus）的后端，用于桌面 Linux/BSD。
//
// 条目使用属性 schema {service, account}（外加 libsecret 兼容的 xdg:schema），标签为 service/account。
// 每次操作都新建会话总线连接与 "plain" 会话，并在所有退出路径上关闭；不维护进程级单例。
package secretservice

import (
	"github.com/godbus/dbus/v5"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/errors"
)

const Name = "secret-service"

const (
	serviceName     = "org.freedesktop.secrets"
	servicePath     = dbus.ObjectPath("/org/freedesktop/secrets")
	serviceIface    = "org.freedesktop.Secret.Service"
	collectionIface = "org.freedesktop.Secret.Collection"
	itemIface       = "org.freedesktop.Secret.Item"
	sessionIface    = "org.freedesktop.Secret.Session"
	promptIface     = "org.freedesktop.Secret.Prompt"

	errNoSuchObject  = "org.freedesktop.Secret.Error.NoSuchObject"
	errUnknownObject = "org.freedesktop.DBus.Error.UnknownObject"

	// noPath 表示“无对象”（例如不需要 prompt、别名未设置）。
	noPath = dbus.ObjectPath("/")

	SchemaName  = "org.freedesktop.Secret.Generic"
	attrSchema  = "xdg:schema"
	contentType = "text/plain; charset=utf8"

	DefaultCollection = "default"
)

// Options 控制写入与枚举使用的集合别名。
type Options struct {
	Collection string // 集合别名；空则 "default"
}

type Backend struct {
	opts Options
	dial func() (bus, error)
}

var _ backend.Backend = (*Backend)(nil)

func New(opts Options) *Backend {
	return newWithDialer(opts, dialSessionBus)
}

func newWithDialer(opts Options, dial func() (bus, error)) *Backend {
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	return &Backend{opts: opts, dial: dial}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Set(addr address.Address, value string) error {
	s, err := b.open()
	if err != nil {
		return err
	}
	defer s.close()

	coll, _, err := s.collection(b.opts.Collection, true)
	if err != nil {
		return err
	}
	if err := s.unlock([]dbus.ObjectPath{coll}); err != nil {
		return err
	}

	props := map[string]dbus.Variant{
		itemIface + ".Label":      dbus.MakeVariant(addr.Key()),
		itemIface + ".Attributes": dbus.MakeVariant(attributes(addr)),
	}
	sec := secret{
		Session:     s.path,
		Parameters:  []byte{},
		Value:       []byte(value),
		ContentType: contentType,
	}
	defer sec.release()

	var item, prompt dbus.ObjectPath
	if err := s.bus.call(coll, collectionIface+".CreateItem", props, sec, true).Store(&item, &prompt); err != nil {
		return failure("CreateItem", err)
	}
	if prompt != noPath {
		if _, err := s.bus.prompt(prompt); err != nil {
			return failure("CreateItem prompt", err)
		}
	}
	return nil
}

func (b *Backend) Get(addr address.Address) (string, bool, error) {
	s, err := b.open()
	if err != nil {
		return "", false, err
	}
	defer s.close()
	return s.lookup(attributes(addr))
}

func (b *Backend) Delete(addr address.Address) (bool, error) {
	s, err := b.open()
	if err != nil {
		return false, err
	}
	defer s.close()

	items, err := s.search(attributes(addr))
	if err != nil {
		return false, err
	}
	deleted := false
	for _, item := range items {
		var prompt dbus.ObjectPath
		if err := s.bus.call(item, itemIface+".Delete").Store(&prompt); err != nil {
			if isNoSuchObject(err) {
				continue
			}
			return false, failure("Item.Delete", err)
		}
		if prompt != noPath {
			if _, err := s.bus.prompt(prompt); err != nil {
				return false, failure("Item.Delete prompt", err)
			}
		}
		deleted = true
	}
	return deleted, nil
}

func (b *Backend) FindOne(addr address.Address) (string, bool, error) {
	s, err := b.open()
	if err != nil {
		return "", false, err
	}
	defer s.close()
	return s.lookup(attributes(addr))
}

func (b *Backend) FindMany(service string) ([]backend.Record, error) {
	s, err := b.open()
	if err != nil {
		return nil, err
	}
	defer s.close()

	out := []backend.Record{}
	coll, ok, err := s.collection(b.opts.Collection, false)
	if err != nil || !ok {
		return out, err
	}

	var items []dbus.ObjectPath
	attrs := attributes(address.Address{Service: service})
	if err := s.bus.call(coll, collectionIface+".SearchItems", attrs).Store(&items); err != nil {
		if isNoSuchObject(err) {
			return out, nil
		}
		return nil, failure("Collection.SearchItems", err)
	}
	if len(items) == 0 {
		return out, nil
	}
	if err := s.unlock(items); err != nil {
		return nil, err
	}

	for _, item := range items {
		account, err := s.account(item, service)
		if isNoSuchObject(err) {
			continue
		}
		if err != nil {
			return nil, failure("Item.Attributes", err)
		}
		// 列表结果不含 secret，必须逐项显式请求。
		value, found, err := s.secret(item)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		out = append(out, backend.Record{Account: account, Password: value})
	}
	return out, nil
}

// session 是一次调用内的连接与 Secret Service 会话。
type session struct {
	bus  bus
	path dbus.ObjectPath
}

func (b *Backend) open() (*session, error) {
	conn, err := b.dial()
	if err != nil {
		return nil, failure("connect session bus", err)
	}
	var output dbus.Variant
	var path dbus.ObjectPath
	if err := conn.call(servicePath, serviceIface+".OpenSession", "plain", dbus.MakeVariant("")).Store(&output, &path); err != nil {
		_ = conn.close()
		return nil, failure("OpenSession", err)
	}
	return &session{bus: conn, path: path}, nil
}

func (s *session) close() {
	_ = s.bus.call(s.path, sessionIface+".Close").Err
	_ = s.bus.close()
}

// collection 通过别名解析集合；别名未设置且 create 为 true 时创建集合（可能触发 prompt）。
func (s *session) collection(alias string, create bool) (dbus.ObjectPath, bool, error) {
	var path dbus.ObjectPath
	if err := s.bus.call(servicePath, serviceIface+".ReadAlias", alias).Store(&path); err != nil {
		return "", false, failure("ReadAlias "+alias, err)
	}
	if path != noPath {
		return path, true, nil
	}
	if !create {
		return "", false, nil
	}

	props := map[string]dbus.Variant{
		collectionIface + ".Label": dbus.MakeVariant(alias),
	}
	var prompt dbus.ObjectPath
	if err := s.bus.call(servicePath, serviceIface+".CreateCollection", props, alias).Store(&path, &prompt); err != nil {
		return "", false, failure("CreateCollection "+alias, err)
	}
	if prompt != noPath {
		result, err := s.bus.prompt(prompt)
		if err != nil {
			return "", false, failure("CreateCollection prompt", err)
		}
		created, ok := result.Value().(dbus.ObjectPath)
		if !ok || created == noPath {
			return "", false, errors.BackendFailure(Name, "collection was not created", nil)
		}
		path = created
	}
	return path, true, nil
}

func (s *session) unlock(paths []dbus.ObjectPath) error {
	var unlocked []dbus.ObjectPath
	var prompt dbus.ObjectPath
	if err := s.bus.call(servicePath, serviceIface+".Unlock", paths).Store(&unlocked, &prompt); err != nil {
		return failure("Unlock", err)
	}
	if prompt != noPath {
		if _, err := s.bus.prompt(prompt); err != nil {
			return failure("Unlock prompt", err)
		}
	}
	return nil
}

// search 按属性查找条目；锁定的结果会先解锁再返回。
func (s *session) search(attrs map[string]string) ([]dbus.ObjectPath, error) {
	var unlocked, locked []dbus.ObjectPath
	if err := s.bus.call(servicePath, serviceIface+".SearchItems", attrs).Store(&unlocked, &locked); err != nil {
		return nil, failure("SearchItems", err)
	}
	if len(locked) > 0 {
		if err := s.unlock(locked); err != nil {
			return nil, err
		}
		unlocked = append(unlocked, locked...)
	}
	return unlocked, nil
}

func (s *session) lookup(attrs map[string]string) (string, bool, error) {
	items, err := s.search(attrs)
	if err != nil {
		return "", false, err
	}
	for _, item := range items {
		value, found, err := s.secret(item)
		if err != nil {
			return "", false, err
		}
		if found {
			return value, true, nil
		}
	}
	return "", false, nil
}

// secret 显式请求条目的 secret；条目已消失时返回 found=false。
func (s *session) secret(item dbus.ObjectPath) (string, bool, error) {
	var sec secret
	defer sec.release()
	if err := s.bus.call(item, itemIface+".GetSecret", s.path).Store(&sec); err != nil {
		if isNoSuchObject(err) {
			return "", false, nil
		}
		return "", false, failure("Item.GetSecret", err)
	}
	value, err := backend.DecodeSecret(sec.Value)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// account 从条目属性字典中取 account；缺失时退回解析标签。
func (s *session) account(item dbus.ObjectPath, service string) (string, error) {
	v, err := s.bus.property(item, itemIface+".Attributes")
	if err != nil {
		return "", err
	}
	if attrs, ok := v.Value().(map[string]string); ok {
		if account, ok := attrs[address.AttrAccount]; ok {
			return account, nil
		}
	}
	label, err := s.bus.property(item, itemIface+".Label")
	if err != nil {
		return "", err
	}
	text, _ := label.Value().(string)
	return address.AccountFromLabel(service, text), nil
}

// secret 对应 Secret Service 的 (oayays) 结构。
type secret struct {
	Session     dbus.ObjectPath
	Parameters  []byte
	Value       []byte
	ContentType string
}

// release 清零 secret 字节，避免明文在连接缓冲之外继续驻留。
func (s *secret) release() {
	clear(s.Parameters)
	clear(s.Value)
}

func attributes(addr address.Address) map[string]string {
	attrs := addr.Attributes()
	attrs[attrSchema] = SchemaName
	return attrs
}

func failure(op string, err error) *errors.XError {
	return errors.BackendFailure(Name, op+": "+err.Error(), err)
}
