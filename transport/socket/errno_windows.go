package socket

import "syscall"

const (
	wsaEINVAL      syscall.Errno = 10022
	wsaEWOULDBLOCK syscall.Errno = 10035
	wsaEINPROGRESS syscall.Errno = 10036
	wsaEALREADY    syscall.Errno = 10037
	wsaEISCONN     syscall.Errno = 10056
)

var (
	defaultPending    = []syscall.Errno{wsaEWOULDBLOCK, wsaEINPROGRESS, wsaEALREADY, wsaEINVAL}
	defaultConnected  = []syscall.Errno{wsaEISCONN}
	defaultWouldBlock = []syscall.Errno{wsaEWOULDBLOCK}
)
