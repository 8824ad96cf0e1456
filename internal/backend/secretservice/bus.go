package secretservice

import (
	stderrors "errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

var errPromptDismissed = stderrors.New("prompt dismissed by user")

// bus 是一次调用内使用的 D-Bus 连接的最小抽象（便于在测试中替换）。
type bus interface {
	call(path dbus.ObjectPath, method string, args ...any) *dbus.Call
	property(path dbus.ObjectPath, name string) (dbus.Variant, error)
	// prompt 执行 Secret Service 的 Prompt 对象并阻塞等待 Completed 信号。
	prompt(path dbus.ObjectPath) (dbus.Variant, error)
	close() error
}

// connBus 是基于私有会话总线连接的实现；每次操作新建并关闭，不共享进程级单例。
type connBus struct {
	conn *dbus.Conn
}

func dialSessionBus() (bus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &connBus{conn: conn}, nil
}

func (c *connBus) call(path dbus.ObjectPath, method string, args ...any) *dbus.Call {
	return c.conn.Object(serviceName, path).Call(method, 0, args...)
}

func (c *connBus) property(path dbus.ObjectPath, name string) (dbus.Variant, error) {
	return c.conn.Object(serviceName, path).GetProperty(name)
}

func (c *connBus) prompt(path dbus.ObjectPath) (dbus.Variant, error) {
	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(promptIface),
		dbus.WithMatchMember("Completed"),
	}
	if err := c.conn.AddMatchSignal(match...); err != nil {
		return dbus.Variant{}, err
	}
	defer func() { _ = c.conn.RemoveMatchSignal(match...) }()

	signals := make(chan *dbus.Signal, 8)
	c.conn.Signal(signals)
	defer c.conn.RemoveSignal(signals)

	if err := c.call(path, promptIface+".Prompt", "").Err; err != nil {
		return dbus.Variant{}, err
	}
	for sig := range signals {
		if sig.Path != path || sig.Name != promptIface+".Completed" {
			continue
		}
		if len(sig.Body) < 2 {
			return dbus.Variant{}, fmt.Errorf("malformed Completed signal from %s", path)
		}
		if dismissed, _ := sig.Body[0].(bool); dismissed {
			return dbus.Variant{}, errPromptDismissed
		}
		result, _ := sig.Body[1].(dbus.Variant)
		return result, nil
	}
	return dbus.Variant{}, fmt.Errorf("session bus closed while waiting for prompt %s", path)
}

func (c *connBus) close() error {
	return c.conn.Close()
}

// errorName 返回 D-Bus 错误名；不是 D-Bus 错误时返回空串。
func errorName(err error) string {
	var e dbus.Error
	if stderrors.As(err, &e) {
		return e.Name
	}
	var pe *dbus.Error
	if stderrors.As(err, &pe) && pe != nil {
		return pe.Name
	}
	return ""
}

// isNoSuchObject 判断是否为 Secret Service 自身的“未找到”信号。
func isNoSuchObject(err error) bool {
	switch errorName(err) {
	case errNoSuchObject, errUnknownObject:
		return true
	}
	return false
}
