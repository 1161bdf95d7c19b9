package jobxredis

import "github.com/redis/go-redis/v9"

// leaseScript turns a claimed id into a lease. It aborts when the id is no
// longer in the claimed list, which means another worker or the reclaimer got
// there first.
var leaseScript = redis.NewScript(`
local claimed_key = KEYS[1]
local leased_key = KEYS[2]
local job_key = KEYS[3]
local id = ARGV[1]
if redis.call('LREM', claimed_key, 1, id) == 0 then
    return 0
end
if redis.call('EXISTS', job_key) == 0 then
    return 0
end
redis.call('ZADD', leased_key, ARGV[2], id)
redis.call('HINCRBY', job_key, 'attempts', 1)
redis.call('HSET', job_key, 'status', 'active', 'lease', ARGV[3], 'lease_expires_at', ARGV[2], 'updated_at', ARGV[4])
return 1
`)

var ackScript = redis.NewScript(`
local job_key = KEYS[1]
local leased_key = KEYS[2]
if redis.call('HGET', job_key, 'lease') ~= ARGV[2] then
    return 0
end
redis.call('ZREM', leased_key, ARGV[1])
redis.call('DEL', job_key)
return 1
`)

// retryScript returns -1 when the lease is lost, 0 when the job was
// scheduled and 1 when it was dead-lettered. ARGV[8] = '1' skips the
// attempt check.
var retryScript = redis.NewScript(`
local job_key = KEYS[1]
local leased_key = KEYS[2]
local scheduled_key = KEYS[3]
local dead_key = KEYS[4]
local id = ARGV[1]
if redis.call('HGET', job_key, 'lease') ~= ARGV[2] then
    return -1
end
local attempts = tonumber(redis.call('HGET', job_key, 'attempts') or '0')
local max = tonumber(redis.call('HGET', job_key, 'max_attempts') or '1')
if ARGV[8] ~= '1' and attempts < max then
    redis.call('ZREM', leased_key, id)
    redis.call('ZADD', scheduled_key, ARGV[3], id)
    redis.call('HSET', job_key, 'status', 'retrying', 'lease', '', 'error', ARGV[5], 'updated_at', ARGV[4])
    return 0
end
redis.call('HSET', job_key, 'status', 'dead', 'error', ARGV[5], 'updated_at', ARGV[4])
redis.call('LPUSH', dead_key, ARGV[6])
redis.call('LTRIM', dead_key, 0, tonumber(ARGV[7]) - 1)
return 1
`)

var promoteScript = redis.NewScript(`
local scheduled_key = KEYS[1]
local queue_key = KEYS[2]
local now = tonumber(ARGV[1])
local ids = redis.call('ZRANGEBYSCORE', scheduled_key, '-inf', now)
if #ids > 0 then
    for _, id in ipairs(ids) do
        redis.call('HSET', ARGV[2] .. id, 'status', 'pending', 'updated_at', ARGV[1])
        redis.call('LPUSH', queue_key, id)
    end
    redis.call('ZREMRANGEBYSCORE', scheduled_key, '-inf', now)
end
return #ids
`)

// reclaimScript requeues expired leases at the head of the ready list. Jobs
// without attempts left are re-leased to the caller and returned as
// id, token, already-dead triples.
var reclaimScript = redis.NewScript(`
local leased_key = KEYS[1]
local queue_key = KEYS[2]
local now = ARGV[1]
local out = {}
local ids = redis.call('ZRANGEBYSCORE', leased_key, '-inf', now)
for _, id in ipairs(ids) do
    local job_key = ARGV[2] .. id
    if redis.call('EXISTS', job_key) == 0 then
        redis.call('ZREM', leased_key, id)
    else
        local attempts = tonumber(redis.call('HGET', job_key, 'attempts') or '0')
        local max = tonumber(redis.call('HGET', job_key, 'max_attempts') or '1')
        local status = redis.call('HGET', job_key, 'status')
        if status ~= 'dead' and attempts < max then
            redis.call('ZREM', leased_key, id)
            redis.call('HSET', job_key, 'status', 'pending', 'lease', '', 'error', 'lease expired', 'updated_at', now)
            redis.call('RPUSH', queue_key, id)
        else
            local token = ARGV[4] .. id
            redis.call('ZADD', leased_key, ARGV[3], id)
            redis.call('HSET', job_key, 'status', 'dead', 'lease', token, 'lease_expires_at', ARGV[3], 'updated_at', now)
            table.insert(out, id)
            table.insert(out, token)
            if status == 'dead' then
                table.insert(out, '1')
            else
                table.insert(out, '0')
            end
        end
    end
end
return out
`)

// orphanScript returns claimed ids that never got a lease to the ready list.
// Candidates are ids that were already claimed on the previous sweep.
var orphanScript = redis.NewScript(`
local claimed_key = KEYS[1]
local leased_key = KEYS[2]
local queue_key = KEYS[3]
local moved = 0
for _, id in ipairs(ARGV) do
    if not redis.call('ZSCORE', leased_key, id) then
        if redis.call('LREM', claimed_key, 1, id) > 0 then
            redis.call('RPUSH', queue_key, id)
            moved = moved + 1
        end
    end
end
return moved
`)
