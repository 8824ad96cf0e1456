//go:build !linux

package keyctl

type nativeSyscalls struct{}

func (nativeSyscalls) keyringID(string, bool) (int32, error) { return 0, errUnsupported }

func (nativeSyscalls) addKey(string, []byte, int32) (int32, error) { return 0, errUnsupported }

func (nativeSyscalls) search(int32, string) (int32, error) { return 0, errUnsupported }

func (nativeSyscalls) read(int32, []byte) (int, error) { return 0, errUnsupported }

func (nativeSyscalls) describe(int32, []byte) (int, error) { return 0, errUnsupported }

func (nativeSyscalls) invalidate(int32) error { return errUnsupported }
