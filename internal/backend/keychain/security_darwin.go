//go:build darwin && cgo

package keychain

import (
	stderrors "errors"

	gokeychain "github.com/keybase/go-keychain"
)

// securityAPI 通过 go-keychain 调用 SecItem* 接口；CF 对象由 go-keychain 在调用内释放。
// go-keychain 会丢弃空字符串属性，空 account 在这里报错，不让查询退化为整个 service。
type securityAPI struct{}

func genericPassword(service string) gokeychain.Item {
	it := gokeychain.NewItem()
	it.SetSecClass(gokeychain.SecClassGenericPassword)
	it.SetService(service)
	return it
}

func (securityAPI) add(it item) error {
	kc := gokeychain.NewGenericPassword(it.Service, it.Account, it.Label, it.Data, "")
	kc.SetAccessible(gokeychain.AccessibleWhenUnlocked)
	err := gokeychain.AddItem(kc)
	if stderrors.Is(err, gokeychain.ErrorDuplicateItem) {
		return errDuplicate
	}
	return err
}

func (securityAPI) update(service, account string, data []byte) error {
	if account == "" {
		return errEmptyAccount
	}
	q := genericPassword(service)
	q.SetAccount(account)
	u := gokeychain.NewItem()
	u.SetData(data)
	return gokeychain.UpdateItem(q, u)
}

func (securityAPI) find(q query) ([]item, error) {
	if q.HasAccount && q.Account == "" {
		return nil, errEmptyAccount
	}
	kc := genericPassword(q.Service)
	if q.HasAccount {
		kc.SetAccount(q.Account)
	}
	if q.Label != "" {
		kc.SetLabel(q.Label)
	}
	if q.All {
		kc.SetMatchLimit(gokeychain.MatchLimitAll)
	} else {
		kc.SetMatchLimit(gokeychain.MatchLimitOne)
	}
	kc.SetReturnAttributes(true)
	// MatchLimitAll 只能取属性。
	kc.SetReturnData(q.Data && !q.All)

	results, err := gokeychain.QueryItem(kc)
	if err != nil {
		return nil, err
	}
	out := make([]item, 0, len(results))
	for _, r := range results {
		out = append(out, item{Service: r.Service, Account: r.Account, Label: r.Label, Data: r.Data})
	}
	return out, nil
}

func (securityAPI) remove(service, account string) error {
	if account == "" {
		return errEmptyAccount
	}
	kc := genericPassword(service)
	kc.SetAccount(account)
	err := gokeychain.DeleteItem(kc)
	if stderrors.Is(err, gokeychain.ErrorItemNotFound) {
		return errNotFound
	}
	return err
}
