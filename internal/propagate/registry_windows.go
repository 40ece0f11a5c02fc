//go:build windows

package propagate

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/conn-castle/jdk-pulse/internal/messages"
)

const (
	hwndBroadcast   = 0xffff
	wmSettingChange = 0x001A
	smtoAbortIfHung = 0x0002
	broadcastMillis = 5000
)

var procSendMessageTimeoutW = windows.NewLazySystemDLL("user32.dll").NewProc("SendMessageTimeoutW")

type registryStore struct{}

func openUserEnvironment() (EnvStore, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.QUERY_VALUE)
	if err != nil {
		return nil, fmt.Errorf(messages.PropagateRegistryOpenFmt, err)
	}
	_ = key.Close()
	return registryStore{}, nil
}

func (registryStore) open() (registry.Key, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return 0, fmt.Errorf(messages.PropagateRegistryOpenFmt, err)
	}
	return key, nil
}

func (s registryStore) Get(name string) (string, error) {
	key, err := s.open()
	if err != nil {
		return "", err
	}
	defer key.Close()
	value, _, err := key.GetStringValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return "", nil
	}
	return value, err
}

func (s registryStore) SetString(name string, value string) error {
	key, err := s.open()
	if err != nil {
		return err
	}
	defer key.Close()
	if err := key.SetStringValue(name, value); err != nil {
		return fmt.Errorf(messages.PropagateRegistryWriteFmt, name, err)
	}
	return nil
}

func (s registryStore) SetExpandString(name string, value string) error {
	key, err := s.open()
	if err != nil {
		return err
	}
	defer key.Close()
	if err := key.SetExpandStringValue(name, value); err != nil {
		return fmt.Errorf(messages.PropagateRegistryWriteFmt, name, err)
	}
	return nil
}

func (s registryStore) Delete(name string) error {
	key, err := s.open()
	if err != nil {
		return err
	}
	defer key.Close()
	if err := key.DeleteValue(name); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf(messages.PropagateRegistryWriteFmt, name, err)
	}
	return nil
}

func (registryStore) Broadcast() error {
	param, err := windows.UTF16PtrFromString("Environment")
	if err != nil {
		return err
	}
	var result uintptr
	ret, _, callErr := procSendMessageTimeoutW.Call(
		hwndBroadcast,
		wmSettingChange,
		0,
		uintptr(unsafe.Pointer(param)),
		smtoAbortIfHung,
		broadcastMillis,
		uintptr(unsafe.Pointer(&result)),
	)
	if ret == 0 {
		if callErr != nil && !errors.Is(callErr, windows.ERROR_SUCCESS) {
			return callErr
		}
		return errors.New(messages.PropagateBroadcastFailed)
	}
	return nil
}
