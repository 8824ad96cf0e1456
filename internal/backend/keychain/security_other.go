//go:build !(darwin && cgo)

package keychain

type securityAPI struct{}

func (securityAPI) add(item) error { return errUnsupported }

func (securityAPI) update(string, string, []byte) error { return errUnsupported }

func (securityAPI) find(query) ([]item, error) { return nil, errUnsupported }

func (securityAPI) remove(string, string) error { return errUnsupported }
