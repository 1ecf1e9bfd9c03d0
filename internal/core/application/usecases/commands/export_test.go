package commands

var AfterCommit = afterCommit
